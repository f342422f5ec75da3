// Package searchindex connects to the Redis instance that backs the public
// artist search.
//
// The index stores one hash per artist and per studio plus a set per style
// tag. Client only owns the connection and the key namespace; the layout
// itself is written by the relationship index mirror.
//
// # Usage
//
//	client, err := searchindex.NewClient(cfg.Search)
//	if err := client.Ping(ctx); err != nil {
//	    return err
//	}
//	key := client.Key("artist", "artist-001") // tattoo:artist:artist-001
package searchindex
