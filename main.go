package main

import "github.com/frahmantamala/epic-crm/cmd"

func main() {
	cmd.Execute()
}
