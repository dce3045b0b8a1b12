// Package edsapi is a Go client for an EBSCO Discovery Service style
// bibliographic search API.
//
// The client owns the whole token lifecycle: it authenticates with the
// configured account, opens a session for the profile, caches both tokens
// in memory or in Redis/Valkey, and transparently renews the session once
// when the service reports it invalid.
//
//	client, err := edsapi.New(ctx,
//	    edsapi.WithCredentials("user", "secret", "org"),
//	    edsapi.WithProfile("edsapi"),
//	    edsapi.WithRedis("localhost:6379", ""),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	res, err := client.Search(ctx, edsapi.Term("TI", "dogs"), 0, 20, edsapi.SearchParams{})
//	for _, r := range res.Records() {
//	    fmt.Println(r.ID(), r.Title())
//	}
//
// Every search, retrieve and info error is an *edsapi.BackendError. Use
// errors.As to read the remote error code.
package edsapi
