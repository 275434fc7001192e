// package metadata maps raw catalog track payloads into the normalized
// record used for display, tagging, and path derivation.
//
// Everything in this package is a pure transform with no I/O.
package metadata

import (
	"strconv"
	"strings"

	"songpull/internal/services"
)

// TrackRecord is the normalized projection of a catalog track. It is
// created once per resolved track and read-only afterward.
type TrackRecord struct {
	Title         string
	Artists       []string
	Album         string
	AlbumArtists  []string
	Genres        []string
	ReleaseYear   string
	DiscNumber    string
	TrackNumber   string
	CoverImageURL string
}

// Normalize maps a raw Spotify track payload into a [TrackRecord].
//
// Artist order is preserved as delivered by the catalog. Genres are the
// concatenation of every listed artist's genres followed by album-level
// genres, in discovery order and without de-duplication. The release year
// is the substring before the first "-" of the album release date; dates
// not in an ISO-like shape pass through as-is. The cover URL is the first
// entry of the album image list (largest first per the API convention),
// or empty when the list is empty.
func Normalize(track *services.SpotifyTrack) *TrackRecord {
	record := &TrackRecord{
		Title:       track.Name,
		Album:       track.Album.Name,
		ReleaseYear: releaseYear(track.Album.ReleaseDate),
		DiscNumber:  strconv.Itoa(track.DiscNumber),
		TrackNumber: strconv.Itoa(track.TrackNumber),
	}

	for _, artist := range track.Artists {
		record.Artists = append(record.Artists, artist.Name)
		record.Genres = append(record.Genres, artist.Genres...)
	}
	for _, artist := range track.Album.Artists {
		record.AlbumArtists = append(record.AlbumArtists, artist.Name)
	}
	record.Genres = append(record.Genres, track.Album.Genres...)

	if len(track.Album.Images) > 0 {
		record.CoverImageURL = track.Album.Images[0].URL
	}

	return record
}

func releaseYear(date string) string {
	year, _, _ := strings.Cut(date, "-")
	return year
}

// ArtistLine joins the track artists with ", ".
func (r *TrackRecord) ArtistLine() string {
	return strings.Join(r.Artists, ", ")
}

// AlbumArtistLine joins the album artists with ", ".
func (r *TrackRecord) AlbumArtistLine() string {
	return strings.Join(r.AlbumArtists, ", ")
}

// GenreLine joins the genres with ", ", or renders "Unknown" when the
// track carries no genre information at either the artist or album level.
func (r *TrackRecord) GenreLine() string {
	if len(r.Genres) == 0 {
		return "Unknown"
	}
	return strings.Join(r.Genres, ", ")
}

// DisplayName renders the "Artist - Title" form used for terminal output,
// source search, and file naming.
func (r *TrackRecord) DisplayName() string {
	return r.ArtistLine() + " - " + r.Title
}

// TitleOnly builds a minimal record for tracks resolved outside the
// catalog, carrying nothing but a display title.
func TitleOnly(title string) *TrackRecord {
	return &TrackRecord{Title: title}
}
