// package tasks sequences one query through the full pipeline: resolve,
// locate, download, transcode, tag.
//
// The [Pipeline] owns the branching logic: catalog link vs free text,
// catalog hit vs source-index fallback, the existence short-circuit that
// makes re-runs idempotent, and the cleanup ordering that only removes
// the downloaded intermediate after tags are safely written.
package tasks
