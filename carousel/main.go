// Command carousel replays, serves and previews carousels.
package main

import "github.com/sarchlab/carousel/carousel/cmd"

func main() {
	cmd.Execute()
}
