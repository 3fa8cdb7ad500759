// Package preset stores named Custom effect settings.
//
// The effect engine only needs the load/save contract of [Store]; [FileStore]
// implements it on a YAML file and [MemoryStore] in memory. The helpers Get,
// Put and Delete do a read-modify-write through any Store.
package preset
