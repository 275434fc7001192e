// package formatter renders normalized track records for terminal and
// machine output
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"songpull/internal/metadata"
	"songpull/internal/ui"
)

// TrackPanel renders the aligned metadata panel shown for a catalog hit.
func TrackPanel(record *metadata.TrackRecord) string {
	var buf bytes.Buffer

	buf.WriteString("\n")
	row := func(label, value string) {
		buf.WriteString(fmt.Sprintf("%s : %s\n", ui.Label(fmt.Sprintf("%-12s", label)), ui.Value(value)))
	}

	row("Title", record.Title)
	row("Artist", record.ArtistLine())
	row("Album", record.Album)
	row("Album Artist", record.AlbumArtistLine())
	row("Genres", record.GenreLine())
	row("Release Year", record.ReleaseYear)
	row("Disc Number", record.DiscNumber)
	row("Track Number", record.TrackNumber)
	buf.WriteString("\n")

	return buf.String()
}

// TitleLine renders the single-line panel shown for a source-index-only
// track.
func TitleLine(title string) string {
	return fmt.Sprintf("\n%s : %s\n\n", ui.Label(fmt.Sprintf("%-12s", "Title")), ui.Value(title))
}

// ExportJSON converts a track record to JSON with columns matching the
// tag fields written to disk.
func ExportJSON(record *metadata.TrackRecord, pretty bool) ([]byte, error) {
	out := struct {
		Title         string   `json:"title"`
		Artists       []string `json:"artists"`
		Album         string   `json:"album"`
		AlbumArtists  []string `json:"album_artists"`
		Genres        string   `json:"genres"`
		ReleaseYear   string   `json:"release_year"`
		DiscNumber    string   `json:"disc_number"`
		TrackNumber   string   `json:"track_number"`
		CoverImageURL string   `json:"cover_image_url"`
	}{
		Title:         record.Title,
		Artists:       record.Artists,
		Album:         record.Album,
		AlbumArtists:  record.AlbumArtists,
		Genres:        record.GenreLine(),
		ReleaseYear:   record.ReleaseYear,
		DiscNumber:    record.DiscNumber,
		TrackNumber:   record.TrackNumber,
		CoverImageURL: record.CoverImageURL,
	}

	if pretty {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
