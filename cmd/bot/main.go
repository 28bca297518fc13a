package main

import (
	protocol "picturedrive/protocal"

	"github.com/sirupsen/logrus"
)

func main() {
	err := protocol.ServeBot()
	if err != nil {
		logrus.Fatalln(err)
	}
}
