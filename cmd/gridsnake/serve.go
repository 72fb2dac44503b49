package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridsnake/internal/platform/tui"
	"github.com/vovakirdan/gridsnake/internal/platform/web"
	"github.com/vovakirdan/gridsnake/internal/storage"
)

var (
	flagSSHAddr  string
	flagHTTPAddr string
	flagHostKey  string
	flagNoSSH    bool
	flagNoHTTP   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over SSH and websockets",
	Long: `Start an SSH server and a websocket server. Every SSH connection and
every websocket gets its own session; all of them share one in-memory run
ledger that is dropped when the server exits.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.gridsnake/host_key

Examples:
  gridsnake serve                        # SSH on :23234, HTTP on :8080
  gridsnake serve --ssh :2222            # SSH on port 2222
  gridsnake serve --no-http              # SSH only

Connect with:
  ssh localhost -p 23234
  websocket ws://localhost:8080/ws?variant=classic`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23234)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP/websocket address (default from config, :8080)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().BoolVar(&flagNoSSH, "no-ssh", false, "Disable the SSH server")
	serveCmd.Flags().BoolVar(&flagNoHTTP, "no-http", false, "Disable the websocket server")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagNoSSH && flagNoHTTP {
		return errors.New("nothing to serve: both --no-ssh and --no-http are set")
	}
	if _, err := resolveVariant(cfg.Variant); err != nil {
		return err
	}

	ledger, err := storage.Open()
	if err != nil {
		return err
	}
	defer ledger.Close()

	type server interface {
		ListenAndServe() error
		Shutdown(ctx context.Context) error
	}
	var servers []server

	if !flagNoSSH {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = firstNonEmpty(flagSSHAddr, cfg.Server.SSHAddr, sshCfg.Address)
		sshCfg.HostKeyPath = firstNonEmpty(flagHostKey, cfg.Server.HostKey)
		sshCfg.IdleTimeout = cfg.Server.IdleTimeout()
		sshCfg.Variant = cfg.Variant

		sshServer, sshErr := tui.NewSSHServer(sshCfg, ledger, resolveVariant, logger.WithPrefix("gridsnake-ssh"))
		if sshErr != nil {
			return sshErr
		}
		servers = append(servers, sshServer)
		fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(sshCfg.Address))
	}

	var webServer *web.Server
	if !flagNoHTTP {
		webServer = web.New(web.Config{
			Address: firstNonEmpty(flagHTTPAddr, cfg.Server.HTTPAddr, ":8080"),
			Variant: cfg.Variant,
			Resolve: resolveVariant,
		}, ledger, logger.WithPrefix("gridsnake-web"))
		servers = append(servers, webServer)
	}

	errs := make(chan error, len(servers))
	for _, s := range servers {
		go func() { errs <- s.ListenAndServe() }()
	}

	fmt.Println("Press Ctrl+C to stop")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var serveErr error
	select {
	case <-stop:
		live := 0
		if webServer != nil {
			live = webServer.Sessions().Count()
		}
		logger.Info("shutting down", "websocket_sessions", live)
	case serveErr = <-errs:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil {
			logger.Warn("shutdown", "error", err)
		}
	}
	return serveErr
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
