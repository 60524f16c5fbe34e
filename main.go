// Command pulsar sets up and inspects the absolute phase reference of pulsar
// timing models.
package main

import "github.com/papapumpkin/pulsar/cmd"

func main() {
	cmd.Execute()
}
