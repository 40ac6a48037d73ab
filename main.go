package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/vl4deee11/lifesim/config"
	"github.com/vl4deee11/lifesim/server"
	"github.com/vl4deee11/lifesim/sim"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	player, err := sim.NewPlayer(conf)
	if err != nil {
		log.Fatalf("player: %v", err)
	}
	hub := server.NewHub(player)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := player.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[player] %v", err)
		}
	}()
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/", http.FileServer(http.Dir(conf.Server.StaticDir)))

	ln, err := listen(conf.Server.Addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Server started at http://%s", ln.Addr())

	srv := &http.Server{Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http serve error: %v", err)
	}
}

// listen binds addr, trying the next ports when it is taken.
func listen(addr string) (net.Listener, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "server addr %q", addr)
	}
	basePort, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, errors.Wrapf(err, "server addr %q", addr)
	}

	for i := 0; i < 10; i++ {
		addr := net.JoinHostPort(host, fmt.Sprint(basePort+i))
		log.Printf("Trying to start server on %s", addr)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			log.Printf("failed to listen on %s: %v", addr, err)
			continue
		}
		return ln, nil
	}
	return nil, errors.Errorf("unable to start server on any port from %d", basePort)
}
