// Package domain defines the entities tracked by the statistics ledger.
//
// Relationships are by id only:
//   - Player.TeamID, Set.TeamID and Game.TeamID reference a Team
//   - Game.ActivePlayers and Game.GamePlayedList reference Players
//   - Game.ActiveSets and the keys of Game.Sets reference Sets
//
// Nothing references a Game by id, so games are leaves for deletion.
// A finished Game only changes again through a reopen.
package domain
