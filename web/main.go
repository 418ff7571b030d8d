package main

import (
	"flag"
	"log"
	"os"

	"github.com/lumen-render/lumen/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	staticDir := flag.String("static", "web/static", "Directory of viewer static files")
	flag.Parse()

	webServer := server.NewServer(*port, *staticDir)

	log.Printf("Lumen web viewer")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
