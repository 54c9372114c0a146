package report

import (
	"fmt"
	"io"
	"os"

	"github.com/maxtour/maxtour/pkg/ctdf"
	"github.com/maxtour/maxtour/pkg/database"
	"github.com/maxtour/maxtour/pkg/util"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Exports the journey delay spreadsheet as CSV",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "first journey date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "last journey date (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "file to write, stdout when empty",
			},
		},
		Action: func(c *cli.Context) error {
			query := ctdf.JourneyQuery{
				DateFrom: c.String("from"),
				DateTo:   c.String("to"),
			}
			for _, date := range []string{query.DateFrom, query.DateTo} {
				if date == "" {
					continue
				}
				if _, err := util.ParseDate(date); err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
			}

			store, err := database.Open()
			if err != nil {
				return err
			}

			routes, err := store.ListRoutes(c.Context)
			if err != nil {
				return err
			}
			journeys, err := store.ListJourneys(c.Context, query)
			if err != nil {
				return err
			}

			var output io.Writer = os.Stdout
			if path := c.String("output"); path != "" {
				file, err := os.Create(path)
				if err != nil {
					return err
				}
				defer file.Close()
				output = file
			}

			rows := BuildExportRows(journeys, routes)
			if err := WriteCSV(output, rows); err != nil {
				return err
			}

			log.Info().Int("rows", len(rows)).Msg("Delay spreadsheet exported")

			return nil
		},
	}
}
