package main

import (
	"ChromaFM/cmd"
	"log"
)

func main() {
	cmd.Execute()
	// If Execute() had a problem, Cobra would have called os.Exit.
	// Reaching here means the command completed (or a long-running
	// server started without error during setup).
	log.Println("Application command execution finished or server started.")
}
