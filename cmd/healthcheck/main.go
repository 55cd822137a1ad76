package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/symptoms/internal/probe"
)

func main() {

	addr := flag.String("g", "localhost:50051", "gRPC health endpoint address")
	service := flag.String("s", "", "service name to check (empty for the whole server)")
	timeout := flag.Int("t", 3, "timeout (in seconds)")
	flag.Parse()

	if err := run(*addr, *service, time.Duration(*timeout)*time.Second); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	log.Printf("%s: SERVING", *addr)
}

func run(addr, service string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c, err := probe.NewHealthClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	return c.Check(ctx, service)
}
