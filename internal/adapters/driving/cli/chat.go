package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	configfile "github.com/campus-labs/examchat/internal/adapters/driven/config/file"
	"github.com/campus-labs/examchat/internal/adapters/driving/tui"
)

var chatServerURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open a terminal chat session",
	Long:  `Connects to a running examchat server and opens an interactive terminal chat.`,
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatServerURL, "server", "", "server URL (default derived from config addr)")
	rootCmd.AddCommand(chatCmd)
}

func runChat(_ *cobra.Command, _ []string) error {
	url := chatServerURL
	if url == "" {
		cfg, err := configfile.Load(configDir)
		if err != nil {
			return err
		}
		addr := cfg.Server.Addr

		if strings.HasPrefix(addr, ":") {
			addr = "localhost" + addr
		}
		url = fmt.Sprintf("ws://%s/ws", addr)
	}

	return tui.Run(url)
}
