package main

import "ia-papeleria/internal/cmd"

func main() {
	cmd.Execute()
}
