// Package cli implements the interactive shell for the file registry client.
//
// The shell keeps a live local registry of file metadata: a snapshot is
// loaded on startup, server push events are ingested in the background, and
// every command reads from the local registry rather than the network.
// Mutations (share, grant, revoke, delete, mkdir) are applied optimistically
// and rolled back if the server rejects them.
//
// Commands
//
//	list [name|size|date|downloads]   — list cached files, optionally sorted
//	admin                             — refresh and list the admin-wide view
//	search <text>                     — filter cached files by name substring
//	get <id>                          — show a single file, refetching it first
//	shared <id>                       — list users a file is shared with
//	share <id>                        — make a file public (prints the token)
//	private <id>                      — make a file private again
//	grant <id> <user>                 — share a file with a user
//	revoke <id> <user>                — stop sharing a file with a user
//	delete <id>                       — delete a file
//	folders                           — list cached folders
//	mkdir <name>                      — create a folder
//	refresh                           — force a full snapshot reload
//	watch <mime-prefix>               — announce changes to a category view
//	exit | quit                       — leave the program
package cli
