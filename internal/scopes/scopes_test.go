package scopes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionSet(t *testing.T) {
	set := NewPermissionSet(PermissionReadClients, PermissionWriteClients)

	t.Run("has", func(t *testing.T) {
		assert.True(t, set.Has(PermissionReadClients))
		assert.False(t, set.Has(PermissionDeleteClients))
	})

	t.Run("contains all", func(t *testing.T) {
		assert.True(t, set.ContainsAll([]Permission{PermissionReadClients}))
		assert.True(t, set.ContainsAll([]Permission{PermissionReadClients, PermissionWriteClients}))
		assert.False(t, set.ContainsAll([]Permission{PermissionReadClients, PermissionDeleteClients}))
	})

	t.Run("contains all with empty list passes trivially", func(t *testing.T) {
		assert.True(t, set.ContainsAll(nil))
	})

	t.Run("contains any", func(t *testing.T) {
		assert.True(t, set.ContainsAny([]Permission{PermissionDeleteClients, PermissionReadClients}))
		assert.False(t, set.ContainsAny([]Permission{PermissionDeleteClients, PermissionReadPayments}))
	})

	t.Run("contains any with empty list is false", func(t *testing.T) {
		assert.False(t, set.ContainsAny(nil))
	})

	t.Run("union", func(t *testing.T) {
		merged := set.Union(NewPermissionSet(PermissionReadInvoices))
		assert.Len(t, merged, 3)
		assert.True(t, merged.Has(PermissionReadInvoices))
		// The receiver is unchanged.
		assert.Len(t, set, 2)
	})

	t.Run("without", func(t *testing.T) {
		remaining := set.Without(PermissionWriteClients)
		assert.True(t, remaining.Has(PermissionReadClients))
		assert.False(t, remaining.Has(PermissionWriteClients))
		assert.Len(t, set, 2)
	})

	t.Run("list is sorted", func(t *testing.T) {
		list := NewPermissionSet(PermissionWriteClients, PermissionDeleteClients, PermissionReadClients).List()
		assert.Equal(t, []Permission{PermissionDeleteClients, PermissionReadClients, PermissionWriteClients}, list)
	})
}

func TestIsValidPermission(t *testing.T) {
	assert.True(t, IsValidPermission("read_invoices"))
	assert.False(t, IsValidPermission("launch_rockets"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "View invoices", Describe(PermissionReadInvoices))
	assert.Equal(t, "custom_permission", Describe(Permission("custom_permission")))
}
