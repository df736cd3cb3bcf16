package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"agenda/app"
	"agenda/errors"
)

const usage = `Usage: agenda [-config <file>] <command> [flags]

Commands:
  add     -name <name> -category <category> -start "2006-01-02 15:04" -duration <minutes> [-force]
  update  -start "2006-01-02 15:04" [-name <name>] [-category <category>] [-new-start <ts>] [-duration <minutes>] [-force]
  delete  -start "2006-01-02 15:04"
  view    [-category <category>]
  filter  -category <category>
  report  [-period day|week]
  free    -date "2006-01-02"
  export  [-out <file>] [-category <category>]
`

func main() {
	configPath := flag.String("config", "agenda.yaml", "path to the config file")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	config, err := app.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %s\n", err)
		os.Exit(1)
	}
	agenda := app.NewApp(config, os.Stdout)
	if err := agenda.Run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		if !errors.BlameUser(err) {
			fmt.Fprint(os.Stderr, errors.Prettify(err))
		}
		os.Exit(1)
	}
}
