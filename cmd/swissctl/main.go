package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/Dosada05/swiss-tournament-ui/apiclient"
	"github.com/Dosada05/swiss-tournament-ui/models"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:   "swissctl",
		Usage:  "drive the Swiss pairing backend from the terminal",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Usage:   "backend base URL",
				Value:   apiclient.DefaultBaseURL,
				EnvVars: []string{"API_BASE_URL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a tournament",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.IntFlag{Name: "rounds", Value: 5},
				},
				Action: func(c *cli.Context) error {
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					t, err := client.CreateTournament(c.Context, models.CreateTournamentRequest{
						Name:        c.String("name"),
						TotalRounds: c.Int("rounds"),
					})
					if err != nil {
						return failure(err)
					}
					if t == nil {
						return cli.Exit("backend returned no tournament", 1)
					}
					fmt.Fprintf(c.App.Writer, "Created tournament %d: %s (%d rounds)\n", t.ID, t.Name, t.TotalRounds)
					return nil
				},
			},
			{
				Name:  "add-player",
				Usage: "register a player",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "tournament", Required: true},
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: func(c *cli.Context) error {
					name := strings.TrimSpace(c.String("name"))
					if name == "" {
						return cli.Exit("Player name must not be blank", 1)
					}
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					p, err := client.AddPlayer(c.Context, c.Int64("tournament"), models.AddPlayerRequest{Name: name})
					if err != nil {
						return failure(err)
					}
					if p == nil {
						fmt.Fprintln(c.App.Writer, "Player added")
						return nil
					}
					fmt.Fprintf(c.App.Writer, "Added player %d: %s\n", p.ID, p.Name)
					return nil
				},
			},
			{
				Name:  "next-round",
				Usage: "generate the next round and print its pairings",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "tournament", Required: true},
				},
				Action: func(c *cli.Context) error {
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					r, err := client.GenerateNextRound(c.Context, c.Int64("tournament"))
					if err != nil {
						return failure(err)
					}
					if r == nil {
						return cli.Exit("backend returned no round", 1)
					}
					return printRound(c.App.Writer, r)
				},
			},
			{
				Name:  "result",
				Usage: "record a match result (1-0, 0-1, 0.5-0.5, BYE)",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "match", Required: true},
					&cli.StringFlag{Name: "result", Required: true},
				},
				Action: func(c *cli.Context) error {
					code := models.ResultCode(c.String("result"))
					if !code.Valid() {
						return cli.Exit(fmt.Sprintf("unknown result %q", code), 1)
					}
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					if _, err := client.SetResult(c.Context, c.Int64("match"), models.SetResultRequest{Result: code}); err != nil {
						return failure(err)
					}
					fmt.Fprintln(c.App.Writer, "Saved.")
					return nil
				},
			},
			{
				Name:  "standings",
				Usage: "print the standings table",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "tournament", Required: true},
				},
				Action: func(c *cli.Context) error {
					client, err := clientFrom(c)
					if err != nil {
						return err
					}
					rows, err := client.GetStandings(c.Context, c.Int64("tournament"))
					if err != nil {
						return failure(err)
					}
					return printStandings(c.App.Writer, rows)
				},
			},
		},
	}
}

func clientFrom(c *cli.Context) (*apiclient.Client, error) {
	client, err := apiclient.New(c.String("api"))
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	return client, nil
}

// failure turns a backend error into the one-line message users see.
func failure(err error) error {
	return cli.Exit(apiclient.ErrorMessage(err, "Request failed"), 1)
}

func printRound(w io.Writer, r *models.Round) error {
	fmt.Fprintf(w, "Round %d\n", r.Number)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tWHITE\tBLACK\tRESULT")
	for _, m := range r.Matches {
		result := string(m.CurrentResult())
		if result == "" {
			result = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.Player1Display(), m.Player2Display(), result)
	}
	return tw.Flush()
}

func printStandings(w io.Writer, rows []models.Standing) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No players yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPLAYER\tSCORE\tBUCHHOLZ\tSB")
	for i, s := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%g\t%g\t%g\n", i+1, s.Name, s.Score, s.Buchholz, s.SonnebornBerger)
	}
	return tw.Flush()
}
