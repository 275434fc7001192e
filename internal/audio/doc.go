// package audio covers the on-disk half of the pipeline: pulling the
// best audio-only stream for a located source (yt-dlp), transcoding it to
// a fixed-bitrate MP3 (ffmpeg), and writing ID3 tags plus cover art into
// the result.
package audio
