// package services wraps the two upstream HTTP surfaces the pipeline
// depends on.
//
// [SpotifyService] owns the client-credentials session against the
// Spotify Web API and resolves queries to catalog tracks. [YouTubeService]
// searches the public YouTube results index to locate a playable source
// for a display name.
package services
