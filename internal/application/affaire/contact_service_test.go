package affaire

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func principalIDs(list []ContactResponse) []uuid.UUID {
	var ids []uuid.UUID
	for _, c := range list {
		if c.IsPrincipal {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestContactService_FirstContactIsPrincipal(t *testing.T) {
	e := newTestEnv(t)
	a := e.affaire(t, "A001", "0", nil)

	first, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Martin", IsPrincipal: false})
	require.NoError(t, err)
	assert.True(t, first.IsPrincipal)

	second, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Durand"})
	require.NoError(t, err)
	assert.False(t, second.IsPrincipal)

	list, err := e.contacts.ListByAffaire(e.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, principalIDs(list))
}

func TestContactService_NewPrincipalFlipsPrevious(t *testing.T) {
	e := newTestEnv(t)
	a := e.affaire(t, "A001", "0", nil)

	first, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Martin"})
	require.NoError(t, err)
	second, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Durand", IsPrincipal: true})
	require.NoError(t, err)
	assert.True(t, second.IsPrincipal)

	reloaded, err := e.contacts.GetByID(e.ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsPrincipal)

	// switching back through an update
	_, err = e.contacts.UpdateContact(e.ctx, first.ID, ContactRequest{Nom: "Martin", IsPrincipal: true})
	require.NoError(t, err)
	list, err := e.contacts.ListByAffaire(e.ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID}, principalIDs(list))
}

func TestContactService_CannotUnmarkOnlyPrincipal(t *testing.T) {
	e := newTestEnv(t)
	a := e.affaire(t, "A001", "0", nil)
	only, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Martin"})
	require.NoError(t, err)

	_, err = e.contacts.UpdateContact(e.ctx, only.ID, ContactRequest{Nom: "Martin", IsPrincipal: false})
	assert.Equal(t, "INVALID_STATE", codeOf(err))

	reloaded, err := e.contacts.GetByID(e.ctx, only.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.IsPrincipal)
}

func TestContactService_DeletePromotesEarliestSibling(t *testing.T) {
	e := newTestEnv(t)
	a := e.affaire(t, "A001", "0", nil)

	principal, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Martin"})
	require.NoError(t, err)
	second, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Durand"})
	require.NoError(t, err)
	_, err = e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Petit"})
	require.NoError(t, err)

	require.NoError(t, e.contacts.DeleteContact(e.ctx, principal.ID))

	list, err := e.contacts.ListByAffaire(e.ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []uuid.UUID{second.ID}, principalIDs(list))
}

func TestContactService_DeleteLastContact(t *testing.T) {
	e := newTestEnv(t)
	a := e.affaire(t, "A001", "0", nil)
	only, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Martin"})
	require.NoError(t, err)

	require.NoError(t, e.contacts.DeleteContact(e.ctx, only.ID))
	list, err := e.contacts.ListByAffaire(e.ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestContactService_SaveAffaireContacts(t *testing.T) {
	t.Run("empty batch is rejected", func(t *testing.T) {
		e := newTestEnv(t)
		a := e.affaire(t, "A001", "0", nil)
		_, err := e.contacts.SaveAffaireContacts(e.ctx, a.ID, ContactBatchRequest{})
		assert.Equal(t, "INVALID_INPUT", codeOf(err))
	})

	t.Run("two principals are rejected without writes", func(t *testing.T) {
		e := newTestEnv(t)
		a := e.affaire(t, "A001", "0", nil)
		_, err := e.contacts.SaveAffaireContacts(e.ctx, a.ID, ContactBatchRequest{Contacts: []ContactBatchItem{
			{ContactRequest: ContactRequest{Nom: "Martin", IsPrincipal: true}},
			{ContactRequest: ContactRequest{Nom: "Durand", IsPrincipal: true}},
		}})
		assert.Equal(t, "INVALID_INPUT", codeOf(err))

		list, err := e.contacts.ListByAffaire(e.ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("first line promoted when none is principal", func(t *testing.T) {
		e := newTestEnv(t)
		a := e.affaire(t, "A001", "0", nil)
		list, err := e.contacts.SaveAffaireContacts(e.ctx, a.ID, ContactBatchRequest{Contacts: []ContactBatchItem{
			{ContactRequest: ContactRequest{Nom: "Martin"}},
			{ContactRequest: ContactRequest{Nom: "Durand"}},
		}})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Len(t, principalIDs(list), 1)
		assert.Equal(t, "Martin", list[0].Nom)
		assert.True(t, list[0].IsPrincipal)
	})

	t.Run("existing principal is kept when untouched", func(t *testing.T) {
		e := newTestEnv(t)
		a := e.affaire(t, "A001", "0", nil)
		existing, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Martin"})
		require.NoError(t, err)

		list, err := e.contacts.SaveAffaireContacts(e.ctx, a.ID, ContactBatchRequest{Contacts: []ContactBatchItem{
			{ContactRequest: ContactRequest{Nom: "Durand"}},
		}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{existing.ID}, principalIDs(list))
	})

	t.Run("batch principal replaces the existing one", func(t *testing.T) {
		e := newTestEnv(t)
		a := e.affaire(t, "A001", "0", nil)
		existing, err := e.contacts.CreateContact(e.ctx, a.ID, ContactRequest{Nom: "Martin"})
		require.NoError(t, err)

		list, err := e.contacts.SaveAffaireContacts(e.ctx, a.ID, ContactBatchRequest{Contacts: []ContactBatchItem{
			{ID: &existing.ID, ContactRequest: ContactRequest{Nom: "Martin", Fonction: "Gérant"}},
			{ContactRequest: ContactRequest{Nom: "Durand", IsPrincipal: true}},
		}})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Martin - Gérant", list[0].DisplayName)
		assert.False(t, list[0].IsPrincipal)
		assert.True(t, list[1].IsPrincipal)
	})

	t.Run("foreign contact id is rejected", func(t *testing.T) {
		e := newTestEnv(t)
		a := e.affaire(t, "A001", "0", nil)
		b := e.affaire(t, "B001", "0", nil)
		foreign, err := e.contacts.CreateContact(e.ctx, b.ID, ContactRequest{Nom: "Martin"})
		require.NoError(t, err)

		_, err = e.contacts.SaveAffaireContacts(e.ctx, a.ID, ContactBatchRequest{Contacts: []ContactBatchItem{
			{ID: &foreign.ID, ContactRequest: ContactRequest{Nom: "Martin"}},
		}})
		assert.Equal(t, "INVALID_INPUT", codeOf(err))
	})
}

func TestContactService_ListByClient(t *testing.T) {
	e := newTestEnv(t)
	acme := e.client(t, "ACME")
	a1 := e.affaire(t, "A001", "0", &acme.ID)
	a2 := e.affaire(t, "A002", "0", &acme.ID)
	other := e.affaire(t, "B001", "0", nil)

	for _, id := range []uuid.UUID{a1.ID, a2.ID, other.ID} {
		_, err := e.contacts.CreateContact(e.ctx, id, ContactRequest{Nom: "Martin"})
		require.NoError(t, err)
	}

	list, err := e.contacts.ListByClient(e.ctx, acme.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
