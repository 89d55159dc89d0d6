package main

import "github.com/CraigKelly/reparam/cmd"

// TODO: NUTS-style dynamic path lengths for the HMC sampler
// TODO: checkpointing for chains (so we can freeze and continue) - which means
//       model/sampler/chain all need to be included?

func main() {
	cmd.Execute()
}
