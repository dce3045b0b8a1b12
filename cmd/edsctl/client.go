package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/edsapi"
	"github.com/kailas-cloud/edsapi/internal/config"
	"github.com/kailas-cloud/edsapi/internal/logger"
)

// clientOptions turns the config file (when given) and flags into SDK
// options. Flags win over the file.
func (g *globalFlags) clientOptions() ([]edsapi.Option, error) {
	var opts []edsapi.Option

	if g.configPath != "" {
		cfg, err := config.LoadFile(g.configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOptions(cfg)...)
	}

	if g.username != "" || g.password != "" {
		opts = append(opts, edsapi.WithCredentials(g.username, g.password, g.orgID))
	}
	if g.profile != "" {
		opts = append(opts, edsapi.WithProfile(g.profile))
	}
	if g.authURL != "" || g.apiURL != "" {
		opts = append(opts, edsapi.WithEndpoints(g.authURL, g.apiURL))
	}
	if g.ipAuth {
		opts = append(opts, edsapi.WithIPAuth())
	}
	if g.guest {
		opts = append(opts, edsapi.WithGuest())
	}
	if g.redisAddr != "" {
		opts = append(opts, edsapi.WithRedis(g.redisAddr, g.redisPass))
	}
	if !g.discover {
		opts = append(opts, edsapi.WithoutDiscovery())
	}
	if g.verbose {
		l, err := logger.NewLogger("local", "debug")
		if err != nil {
			return nil, err
		}
		opts = append(opts, edsapi.WithZapLogger(l))
	}
	return opts, nil
}

func fileOptions(cfg config.Config) []edsapi.Option {
	e := cfg.EDS
	opts := []edsapi.Option{
		edsapi.WithCredentials(e.Username, e.Password, e.OrgID),
		edsapi.WithProfile(e.Profile),
		edsapi.WithEndpoints(e.AuthURL, e.APIURL),
		edsapi.WithTimeout(time.Duration(e.TimeoutSec) * time.Second),
		edsapi.WithSourceIdentifier(e.SourceIdentifier),
		edsapi.WithSettings(cfg.Search),
		edsapi.WithKeyPrefix(cfg.Cache.KeyPrefix),
	}
	if e.IPAuth {
		opts = append(opts, edsapi.WithIPAuth())
	}
	if e.Guest {
		opts = append(opts, edsapi.WithGuest())
	}
	switch cfg.Cache.Driver {
	case "redis":
		opts = append(opts, edsapi.WithRedis(cfg.Cache.Addrs[0], cfg.Cache.Password))
	case "valkey":
		opts = append(opts, edsapi.WithValkey(cfg.Cache.Addrs[0], cfg.Cache.Password))
	default:
		opts = append(opts, edsapi.WithMemoryCache(cfg.Cache.MaxItems))
	}
	return opts
}

func (g *globalFlags) newClient(ctx context.Context) (*edsapi.Client, error) {
	opts, err := g.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := edsapi.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return c, nil
}
