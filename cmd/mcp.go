package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcdickinson/javadocfetch/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the local index over MCP (stdio)",
	Run:   runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	database := openDB()
	defer database.Close()

	server := mcp.NewServer(database, version)

	errCh := make(chan error)
	go func() { errCh <- server.Run() }()

	if err := waitForSignal(errCh); err != nil {
		database.Close()
		log.Fatalf("server error: %v", err)
	}
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		log.Printf("received signal: %s", sig)
		return nil
	case err := <-errCh:
		return err
	}
}
