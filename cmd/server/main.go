package main

import "intranet/internal/app/server"

func main() {
	server.Run()
}
