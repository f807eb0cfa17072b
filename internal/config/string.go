package config

import (
	"fmt"

	"github.com/atlanticdynamic/activetx/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered tree string
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("activetx Config (%s)", cfg.Version)))

	loggingTree := fancy.BranchNode("Logging", "")
	loggingTree.Child(fmt.Sprintf("Format: %s", cfg.Logging.FormatOrDefault()))
	loggingTree.Child(fmt.Sprintf("Level: %s", cfg.Logging.LevelOrDefault()))
	if cfg.Logging.Output != "" {
		loggingTree.Child(fmt.Sprintf("Output: %s", cfg.Logging.Output))
	}
	t.Child(loggingTree)

	if !cfg.Storage.IsZero() {
		storageTree := fancy.BranchNode("Storage", "")
		if cfg.Storage.BlockCacheMiB > 0 {
			storageTree.Child(fmt.Sprintf("Block cache: %d MiB", cfg.Storage.BlockCacheMiB))
		}
		if cfg.Storage.WriteBufferMiB > 0 {
			storageTree.Child(fmt.Sprintf("Write buffer: %d MiB", cfg.Storage.WriteBufferMiB))
		}
		if cfg.Storage.Compression != CompressionUnspecified {
			storageTree.Child(fmt.Sprintf("Compression: %s", cfg.Storage.Compression))
		}
		t.Child(storageTree)
	}

	active := cfg.ActiveDocument()
	docsTree := fancy.BranchNode("Documents", fmt.Sprintf("(%d)", len(cfg.Documents)))
	for _, doc := range cfg.Documents {
		docsTree.Child(fancy.DocumentNode(doc.Name, doc.Path, doc.Name == active))
	}
	t.Child(docsTree)

	return t.String()
}
