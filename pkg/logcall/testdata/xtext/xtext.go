package xtext

import (
	"fmt"
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func report(n int) {
	p := message.NewPrinter(language.English)
	log.Print(p.Sprintf("%d items", n))
	log.Print(fmt.Sprintf("%d items", n))
	log.Print(p.Sprint(n))
	log.Print("items")
}
