// Command api runs the PapelBot HTTP server; same as "papelbot serve".
package main

import "ia-papeleria/internal/cmd"

func main() {
	cmd.ExecuteServe()
}
