// Command kindling provisions a Kubernetes-in-Docker development
// environment: Docker, kubectl, kind, a local cluster, and add-ons.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
