// Command overlaynet runs overlay network simulations.
package main

import "github.com/sarchlab/overlaynet/overlaynet/cmd"

func main() {
	cmd.Execute()
}
