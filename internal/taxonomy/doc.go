// Package taxonomy reads and writes the hub/subhub taxonomy file.
//
// The file is a JSON object of hubs, each an object of subhubs, each an
// array of page slugs. Key order is part of the data: it decides which
// subhub wins a tie, so it is preserved on every rewrite. Writes hold an
// exclusive lock on "<path>.lock" and replace the file atomically.
package taxonomy
