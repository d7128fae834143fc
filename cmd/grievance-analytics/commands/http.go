package commands

import (
	"net"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"grievance-analytics/internal/httpapi"
)

var (
	httpAddr string
	openUI   bool
)

var httpCmd = &cobra.Command{
	Use:   "http",
	Short: "Serve the dashboard HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd)
		defer cancel()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := cfg.HTTP.Addr
		if httpAddr != "" {
			addr = httpAddr
		}

		if openUI {
			go func() {
				time.Sleep(500 * time.Millisecond)
				url := "http://" + browseHost(addr) + "/api/analytics"
				if err := browser.OpenURL(url); err != nil {
					log.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
				}
			}()
		}

		return httpapi.Serve(ctx, addr, a.service, httpapi.Options{
			CORSOrigins:  cfg.HTTP.CORSOrigins,
			RateLimit:    cfg.HTTP.RateLimit,
			RateBurst:    cfg.HTTP.RateBurst,
			TopLocations: cfg.TopLocations,
		})
	},
}

// browseHost turns a listen address like ":8080" into "localhost:8080".
func browseHost(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}

func init() {
	httpCmd.Flags().StringVar(&httpAddr, "addr", "", "listen address (overrides HTTP_ADDR)")
	httpCmd.Flags().BoolVar(&openUI, "open", false, "open the analytics endpoint in the default browser")
}
