// Package config loads route definition files for the navigator tools.
//
// Definitions live in navigator.json (or navigator.yaml) next to the
// application, or in an S3 object addressed as s3://bucket/key.
//
// # File Structure
//
//	{
//	  "routes": [
//	    {
//	      "name": "snippet_edit",
//	      "view": "sulu_snippet.form",
//	      "path": "/snippets/:locale/:id",
//	      "parent": "snippet_list",
//	      "attributeDefaults": {"locale": "en"},
//	      "rerenderAttributes": ["locale"],
//	      "options": {"formKey": "snippet"}
//	    }
//	  ],
//	  "inspector": {
//	    "addr": "localhost:7070",
//	    "readTimeout": "10s",
//	    "writeTimeout": "10s"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reg, err := cfg.BuildRegistry()
package config
