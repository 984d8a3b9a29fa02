// Package profile computes the per-column, luminance-normalized channel
// statistics of an aligned group and writes them as CSV.
package profile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"chromaprof/internal/models"
)

// ColumnProfile produces one row per pixel column of the aligned group.
//
// For every column x and replicate, the value is the arithmetic mean over
// all H rows of selected/(c0+c1+c2). A pixel whose three samples sum to zero
// contributes exactly 0 and still counts toward the H denominator, so dark
// pixels dilute the average rather than being excluded. The row average is
// the mean of the three replicate values.
//
// The distance axis runs from upper at column 0 down toward lower, with
// pixelWidth = (upper-lower)/W. The last column maps to
// upper-(W-1)*pixelWidth, which stays strictly above lower; downstream
// consumers depend on this exact mapping.
func ColumnProfile(group *models.AlignedGroup, ch models.Channel, upper, lower float64) []models.ProfileRow {
	width := group.Width()
	height := group.Height()
	pixelWidth := (upper - lower) / float64(width)

	rows := make([]models.ProfileRow, width)
	ratios := make([]float64, height)
	var replicateMeans [models.ReplicatesPerGroup]float64

	for x := 0; x < width; x++ {
		for i, rep := range group.Replicates {
			img := rep.Image
			for y := 0; y < height; y++ {
				c0, c1, c2 := img.At(x, y)
				luminance := float64(c0) + float64(c1) + float64(c2)
				if luminance > 0 {
					ratios[y] = float64(img.Sample(x, y, ch)) / luminance
				} else {
					ratios[y] = 0
				}
			}
			replicateMeans[i] = stat.Mean(ratios, nil)
		}

		rows[x] = models.ProfileRow{
			Distance:   upper - float64(x)*pixelWidth,
			Replicates: replicateMeans,
			Average:    stat.Mean(replicateMeans[:], nil),
		}
	}
	return rows
}

// CSVFilename builds the tabular artifact name for a group, e.g.
// W_1200_Rness.csv for the red channel.
func CSVFilename(identifier string, key int, ch models.Channel) string {
	return fmt.Sprintf("%s_%d_%sness.csv", identifier, key, ch.Tag())
}

// WriteCSV writes the header and one record per row, in the column order the
// rows were produced in.
func WriteCSV(w io.Writer, ch models.Channel, rows []models.ProfileRow) error {
	cw := csv.NewWriter(w)

	name := ch.Name()
	header := []string{
		"Distance (cm)",
		name + " R1",
		name + " R2",
		name + " R3",
		"Average " + name,
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, 5)
	for _, row := range rows {
		record[0] = formatValue(row.Distance)
		for i, v := range row.Replicates {
			record[i+1] = formatValue(v)
		}
		record[4] = formatValue(row.Average)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
