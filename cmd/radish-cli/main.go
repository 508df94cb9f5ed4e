package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	radish "github.com/go-radish/radish/radish-client"
)

func main() {
	var addr string
	flag.StringVar(&addr, "a", "127.0.0.1:6142", "Server address.")
	flag.Parse()

	client, err := radish.Dial(addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer client.Close()

	args := flag.Args()
	if len(args) > 0 {
		runOne(client, args[0], args[1:])
		return
	}

	runRepl(client)
}

// runOne executes a single command given on the command line, mirroring
// original_source/radish-cli/src/main.rs's argv-mode branch.
func runOne(client *radish.Client, name string, rawArgs []string) {
	cmd := radish.ParseCommand(name, rawArgs)
	result, err := client.Do(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(result.String())
}

// runRepl reads one command per line from stdin until EOF, mirroring
// original_source/radish-cli/src/main.rs's stdin-line-mode branch.
func runRepl(client *radish.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd := radish.ParseCommand(fields[0], fields[1:])
		result, err := client.Do(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Println(result.String())
	}
}
