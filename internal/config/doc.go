// Package config loads livetree tool configuration.
//
// The configuration lives in livetree.json or livetree.yaml in the
// working directory. JSON wins when both exist.
//
// # Configuration File Structure
//
//	{
//	  "name": "todo",
//	  "scheduler": {
//	    "maxCascade": 100
//	  },
//	  "inspector": {
//	    "addr": "localhost:7070",
//	    "metrics": true
//	  },
//	  "archive": {
//	    "kind": "s3",
//	    "bucket": "snapshots",
//	    "prefix": "todo/",
//	    "region": "eu-west-1"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// The same structure in YAML:
//
//	name: todo
//	scheduler:
//	  maxCascade: 100
//	inspector:
//	  addr: localhost:7070
package config
