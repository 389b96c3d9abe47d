// ABOUTME: CLI command for running the HTTP server.
// ABOUTME: Serves the write and read endpoints until SIGINT or SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/workoutlog/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server over the configured backend.

ENDPOINTS:

  POST /            Append the JSON body as a record     {"status":"ok"} | {"error":"..."}
  POST /records     Same as POST /
  GET  /?user=NAME  Records of NAME, newest date first   [...] | {"error":"..."}
  GET  /records     Same as GET /
  GET  /healthz     Liveness                             {"status":"ok"}

Both record endpoints answer 200 with a JSON body; failures are reported in
the body. The sheet must exist (see 'workoutlog init'): writes to a missing
sheet return {"error":"Sheet not found"} and reads return [].

EXAMPLES:

  workoutlog serve
  workoutlog serve --addr 127.0.0.1:9000
  workoutlog serve --backend sheets`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r, err := openRepo(ctx)
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.GetAddr()
		}

		srv := server.New(server.Config{Repo: r, Logger: lg})
		lg.Info("serving records", "backend", cfg.GetBackend(), "sheet", r.SheetName())
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)
}
