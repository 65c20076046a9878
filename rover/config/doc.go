// Package config reads mission files and process settings.
//
// Catalog loads JSON mission definitions from a directory. Each file
// describes a plateau and the rovers deployed onto it:
//
//	{
//	  "name": "Classic",
//	  "description": "Two rovers on a 5x5 plateau",
//	  "plateau": {"max_x": 5, "max_y": 5},
//	  "rovers": [
//	    {"x": 1, "y": 2, "orientation": "N", "commands": "LMLMLMLMM"},
//	    {"x": 3, "y": 3, "orientation": "E", "commands": "MMRMMRMRRM"}
//	  ]
//	}
//
// A mission is addressed by its file name without the .json extension.
// Loaded missions are cached; RefreshCache forces a reread.
//
// Settings is populated from environment variables (HOST, PORT,
// MISSIONS_DIR, DEBUG, NGROK_ENABLED, NGROK_AUTHTOKEN, NGROK_DOMAIN).
package config
