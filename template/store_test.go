package template

import (
	"testing"

	"github.com/siatlabs/siat/model"
	"github.com/siatlabs/siat/persistence/inmem"
	"github.com/stretchr/testify/require"
)

func TestStoreDefaults(t *testing.T) {
	store := NewStore(nil)
	tpl, err := store.Get(model.FLOW_TYPE_CRUD)
	require.NoError(t, err)
	require.Equal(t, LANG_TYPESCRIPT, tpl.Language)
	require.Contains(t, tpl.Body, "@Controller")

	tpl, err = store.Get(model.FLOW_TYPE_REPORT)
	require.NoError(t, err)
	require.Equal(t, LANG_SQL, tpl.Language)

	_, err = store.Get("BOGUS")
	require.Error(t, err)
}

func TestStoreList(t *testing.T) {
	store := NewStore(nil)
	templates := store.List()
	require.Len(t, templates, 8)
}

func TestStoreOverrideShadowsDefault(t *testing.T) {
	storage := inmem.NewStorage()
	store := NewStore(storage.Templates())

	override := model.CodeTemplate{
		Type:     model.FLOW_TYPE_CRUD,
		Language: LANG_TYPESCRIPT,
		Name:     "tenant-crud",
		Body:     "@Controller('custom')\nexport class Generic {}",
	}
	require.NoError(t, store.Save(override))

	tpl, err := store.Get(model.FLOW_TYPE_CRUD)
	require.NoError(t, err)
	require.Equal(t, "tenant-crud", tpl.Name)

	// other types still come from the embedded defaults
	tpl, err = store.Get(model.FLOW_TYPE_API)
	require.NoError(t, err)
	require.Equal(t, "api-service", tpl.Name)
}
