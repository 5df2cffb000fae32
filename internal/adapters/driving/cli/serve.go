package cli

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/campus-labs/examchat/internal/adapters/driving/ws"
	"github.com/campus-labs/examchat/internal/core/services"
	"github.com/campus-labs/examchat/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat server",
	Long: `Starts the WebSocket chat server. The index is built lazily on the
first client connection unless it has been built already.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	registry := services.NewSessionRegistry()
	server := ws.NewServer(a.chat, a.index, registry, a.cfg.Index.TopK)

	mux := http.NewServeMux()
	mux.Handle("/ws", server)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	logger.Info("Listening on %s", addr)
	cmd.Printf("examchat server listening on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}
