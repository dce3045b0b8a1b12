package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/edsapi/internal/version"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	username   string
	password   string
	orgID      string
	profile    string
	authURL    string
	apiURL     string
	ipAuth     bool
	guest      bool
	redisAddr  string
	redisPass  string
	discover   bool
	asJSON     bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "edsctl",
		Short:         "Query a discovery search service from the command line",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "YAML config file (eds, cache and search sections are used)")
	pf.StringVar(&g.username, "user", os.Getenv("EDS_USER"), "account user id (env EDS_USER)")
	pf.StringVar(&g.password, "password", os.Getenv("EDS_PASSWORD"), "account password (env EDS_PASSWORD)")
	pf.StringVar(&g.orgID, "org", os.Getenv("EDS_ORG"), "organization id (env EDS_ORG)")
	pf.StringVar(&g.profile, "profile", os.Getenv("EDS_PROFILE"), "API profile (env EDS_PROFILE)")
	pf.StringVar(&g.authURL, "auth-url", "", "authentication service base URL")
	pf.StringVar(&g.apiURL, "api-url", "", "search service base URL")
	pf.BoolVar(&g.ipAuth, "ip-auth", false, "authenticate by network address")
	pf.BoolVar(&g.guest, "guest", false, "open guest sessions")
	pf.StringVar(&g.redisAddr, "redis", "", "share tokens through a Redis/Valkey address")
	pf.StringVar(&g.redisPass, "redis-password", "", "Redis/Valkey password")
	pf.BoolVar(&g.discover, "discover", true, "load the profile's search options before running")
	pf.BoolVar(&g.asJSON, "json", false, "print JSON instead of a table")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log remote calls to stderr")

	root.AddCommand(newSearchCmd(g))
	root.AddCommand(newRetrieveCmd(g))
	root.AddCommand(newInfoCmd(g))
	root.AddCommand(newTokenCmd(g))
	root.AddCommand(newHealthCmd(g))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
