// Package config loads arena configurations from a directory of JSON files.
//
// Each file describes one arena: its size, a layout of tile characters
// (. normal, R rush, G gold, P power, # wall), the stun duration, and the
// enemies with their spawn point and patrol. The file name without the
// .json extension is the config ID used when creating a match.
//
// The default arena is "courtyard" when present, otherwise the first valid
// file in name order, otherwise the arena built into the engine package.
//
//	manager, err := config.NewManager("configs")
//	arena, err := manager.LoadConfig("maze")
//	infos, err := manager.ListConfigs()
package config
