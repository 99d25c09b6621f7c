// Command doorbell runs the smart doorbell demo.
package main

import "github.com/oshokin/smart-doorbell/cmd/doorbell/cmd"

func main() {
	cmd.Execute()
}
