package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"httplsp/internal/server"

	"github.com/joho/godotenv"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	versionFlag := flag.Bool("version", false, "Print the version of the program")
	logfileFlag := flag.String("logfile", os.Getenv("HTTP_LSP_LOGFILE"), "Path to log file")
	verbosityFlag := flag.Int("verbosity", envInt("HTTP_LSP_VERBOSITY", 1), "Verbosity of the glsp logger")
	dumpFlag := flag.String("dump", "", "Print the requests of every request file under this directory and exit")
	configFlag := flag.String("config", "", "JSON config file used by -dump")
	flag.Parse()

	// Version tag
	if *versionFlag {
		fmt.Printf("http-lsp server version %s\n", Version)
		return
	}

	if *dumpFlag != "" {
		if err := runDump(os.Stdout, *dumpFlag, *configFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// Logging
	if *logfileFlag != "" {
		logFile, err := os.OpenFile(*logfileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Println("Starting http-lsp server...")
		commonlog.Configure(*verbosityFlag, logfileFlag) // Logger used by glsp
	} else {
		log.SetOutput(io.Discard)
		commonlog.Configure(*verbosityFlag, nil)
	}

	// Initialize the server
	srv, err := server.NewServer(Version)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Run the server
	if err := srv.RunStdio(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
