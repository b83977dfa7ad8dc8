package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"amber-server/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "now":
		id, err := version.BuildIDFor(time.Now())
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
	case "id":
		if len(os.Args) < 3 {
			fmt.Println("Usage: buildutil id <YYYY-MM-DD>")
			return
		}
		t, err := time.ParseInLocation("2006-01-02", os.Args[2], time.UTC)
		if err != nil {
			fmt.Printf("Invalid date: %v\n", err)
			os.Exit(1)
		}
		id, err := version.BuildIDFor(t)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
	case "date":
		if len(os.Args) < 3 {
			fmt.Println("Usage: buildutil date <build_id>")
			return
		}
		id, err := strconv.Atoi(os.Args[2])
		if err != nil || id < 0 {
			fmt.Printf("Invalid build id: %s\n", os.Args[2])
			os.Exit(1)
		}
		fmt.Println(version.DateOf(id).Format("2006-01-02"))
	case "ldflags":
		// Готовая строка для go build -ldflags
		today := time.Now().UTC().Format("2006-01-02")
		fmt.Printf("-X amber-server/internal/version.BuildDate=%s\n", today)
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Build Utility - номера сборок amber-server
Commands:
  now                - номер сборки на сегодня
  id <YYYY-MM-DD>    - номер сборки для даты
  date <build_id>    - дата сборки по номеру
  ldflags            - флаг -X для сегодняшней сборки`)
}
