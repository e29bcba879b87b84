package memory_test

import (
	"testing"

	"github.com/sunbun/assistant/pkg/adapters/memory"
	"github.com/sunbun/assistant/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}
