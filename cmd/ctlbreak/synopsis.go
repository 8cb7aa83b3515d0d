package main

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/benwilkes9/ctlbreak/internal/controlbreak"
	"github.com/benwilkes9/ctlbreak/internal/rows"
)

//go:embed cities.csv
var citiesCSV string

// runSynopsis prints district and country subtotals for the cities sample,
// driving the tracker by hand rather than through report.Run.
func runSynopsis(w io.Writer) error {
	return synopsis(w, strings.NewReader(citiesCSV))
}

func synopsis(w io.Writer, r io.Reader) error {
	tr, err := controlbreak.New("District", "Country")
	if err != nil {
		return err
	}
	out := csv.NewWriter(w)
	src := rows.NewCSV(r)

	var district, country, grand int64
	lastKeys := func() (string, string, error) {
		c, err := tr.Last(controlbreak.Name("Country"))
		if err != nil {
			return "", "", err
		}
		d, err := tr.Last(controlbreak.Name("District"))
		if err != nil {
			return "", "", err
		}
		return fmt.Sprint(c), fmt.Sprint(d), nil
	}
	write := func(rec ...string) error {
		if err := out.Write(rec); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}

	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading sample: %w", err)
		}
		pop, err := strconv.ParseInt(row.Fields["Population"], 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", row.Line, err)
		}

		if _, err := tr.Test(row.Fields["District"], row.Fields["Country"]); err != nil {
			return err
		}
		c, d, err := lastKeys()
		if err != nil {
			return err
		}
		ok, err := tr.Break(controlbreak.Name("District"))
		if err != nil {
			return fmt.Errorf("line %d: %w", row.Line, err)
		}
		if ok {
			if err := write(c, d, strconv.FormatInt(district, 10)); err != nil {
				return err
			}
			district = 0
		}
		ok, err = tr.Break(controlbreak.Name("Country"))
		if err != nil {
			return fmt.Errorf("line %d: %w", row.Line, err)
		}
		if ok {
			if err := write(c+" total", "", strconv.FormatInt(country, 10)); err != nil {
				return err
			}
			country = 0
		}

		district += pop
		country += pop
		grand += pop
		tr.Continue()
	}

	if tr.Iteration() > 0 {
		c, d, err := lastKeys()
		if err != nil {
			return err
		}
		if err := write(c, d, strconv.FormatInt(district, 10)); err != nil {
			return err
		}
		if err := write(c+" total", "", strconv.FormatInt(country, 10)); err != nil {
			return err
		}
		if err := write("Grand total", "", strconv.FormatInt(grand, 10)); err != nil {
			return err
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}
