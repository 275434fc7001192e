package audio

import (
	"fmt"
	"os"

	"github.com/bogem/id3v2"
)

// Tags is the scalar field set written into an MP3 container. Empty
// fields are skipped, so a title-only set leaves every other frame unset.
type Tags struct {
	Title       string
	Artist      string
	Album       string
	Genre       string
	AlbumArtist string
	TrackNumber string
	DiscNumber  string
	Year        string
}

// Tagger writes ID3 tags to MP3 files.
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// WriteTags clears all existing tag frames on mp3Path, writes the
// provided field set, and embeds cover as a front-cover image/jpeg frame
// when non-nil. After the tags save without error, removePath (the
// pre-transcode intermediate) is deleted; on any failure it is left on
// disk so the download stays recoverable.
func (t *Tagger) WriteTags(mp3Path string, tags Tags, cover []byte, removePath string) error {
	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s for tagging: %w", mp3Path, err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()

	setFrame := func(id, value string) {
		if value != "" {
			tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
		}
	}

	setFrame("TIT2", tags.Title)
	setFrame("TPE1", tags.Artist)
	setFrame("TALB", tags.Album)
	setFrame("TCON", tags.Genre)
	setFrame("TPE2", tags.AlbumArtist)
	setFrame("TRCK", tags.TrackNumber)
	setFrame("TPOS", tags.DiscNumber)
	setFrame("TYER", tags.Year)

	if cover != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Album Art",
			Picture:     cover,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}

	if removePath != "" {
		if err := os.Remove(removePath); err != nil {
			return fmt.Errorf("failed to remove intermediate %s: %w", removePath, err)
		}
	}

	return nil
}
