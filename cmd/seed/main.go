// Command seed fills an empty storefront catalog. It reads the server
// configuration (-d, -c) for the database and takes the dataset path from
// -f; without -f the bundled sample catalog is used.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/dmitrijs2005/vamazon/internal/flagx"
	"github.com/dmitrijs2005/vamazon/internal/server"
	"github.com/dmitrijs2005/vamazon/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	path := fs.String("f", "", "dataset JSON file")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-f"}))

	n, err := server.Seed(context.Background(), cfg, *path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("seeded %d products", n)
}
