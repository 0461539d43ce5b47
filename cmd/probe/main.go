package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/segurnet/claims-relay/dispatch"
)

/* probe sends one connectivity_test envelope to a URL and prints the
 * outcome. Useful for validating a destination before registering it.
 *
 *   go run ./cmd/probe -url https://h.albato.com/wh/abc
 */

func main() {
	url := flag.String("url", "", "destination URL to test")
	flag.Parse()

	if *url == "" {
		fmt.Fprintln(os.Stderr, "usage: probe -url <destination>")
		os.Exit(2)
	}

	prober := dispatch.NewProber(nil)
	result, err := prober.TestURL(context.Background(), *url)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if result.Success {
		fmt.Printf("OK %d\n%s\n", result.StatusCode, result.ResponseBody)
		return
	}
	fmt.Printf("FAILED %d\n", result.StatusCode)
	if result.Error != "" {
		fmt.Println(result.Error)
	} else {
		fmt.Println(result.ResponseBody)
	}
	os.Exit(1)
}
