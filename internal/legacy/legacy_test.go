package legacy_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/legacy"
	"almoxarifado/internal/pkg/logger"
	"almoxarifado/internal/repository/memory"
)

const itemUUID = "7b0c1f7e-4c1b-4d8f-9a51-0b6c2b9f1e10"

const legacyJSON = `{
  "users": [
    {"id": "u1", "name": "Admin", "username": "admin", "password": "admin", "role": "ADMIN"},
    {"id": "u2", "name": "Maria", "username": "maria", "password": "123", "role": "solicitante"}
  ],
  "items": [
    {"id": "` + itemUUID + `", "name": "Cabo 2,5mm", "code": "CB25", "unit": "m", "qty": 40, "min": 10},
    {"id": "it-2", "name": "Disjuntor", "unit": "un", "qty": -3, "min": 2}
  ],
  "reqs": [
    {
      "id": "r1",
      "header": {"pedido": "PC-7", "fornecedor": "Eletro SA", "createdBy": "Maria", "createdAt": "2024-03-01T12:00:00.000Z"},
      "lines": [
        {"id": "l1", "itemId": "` + itemUUID + `", "name": "Cabo 2,5mm", "unit": "m", "qty": 30, "unitPrice": 2.5},
        {"id": "l2", "itemId": "it-2", "name": "Disjuntor", "unit": "un", "qty": 4, "unitPrice": 18.9}
      ],
      "deliveryDate": "2024-03-10T00:00:00.000Z",
      "received": [
        {"receivedQty": 30, "received": true, "notes": "ok"},
        {"receivedQty": 0, "received": false, "notes": ""}
      ],
      "status": "PENDENTE"
    },
    {
      "id": "r2",
      "header": {"pedido": "PC-8", "createdBy": "Desconhecido"},
      "lines": [{"id": "l3", "itemId": "sumiu", "qty": 1, "unitPrice": 0}],
      "deliveryDate": null
    }
  ]
}`

func plainHasher(p string) (string, error) { return "hash:" + p, nil }

func TestConvert(t *testing.T) {
	st, err := legacy.Parse(strings.NewReader(legacyJSON))
	require.NoError(t, err)

	ds, err := legacy.Convert(st, plainHasher)
	require.NoError(t, err)

	// Usuários: hash aplicado, papel normalizado, IDs não-UUID trocados.
	require.Len(t, ds.Users, 2)
	assert.Equal(t, "hash:admin", ds.Users[0].PasswordHash)
	assert.Equal(t, domain.RoleSolicitante, ds.Users[1].Role)
	_, err = uuid.Parse(ds.Users[1].ID)
	assert.NoError(t, err)

	// Itens: UUID legado preservado, saldo negativo zerado.
	require.Len(t, ds.Items, 2)
	assert.Equal(t, itemUUID, ds.Items[0].ID)
	assert.Equal(t, 0, ds.Items[1].Qty)
	assert.NotEqual(t, "it-2", ds.Items[1].ID)

	// Requisição 1: linhas remapeadas, status recalculado, data truncada.
	require.Len(t, ds.Requests, 2)
	r1 := ds.Requests[0]
	assert.Equal(t, ds.Users[1].ID, r1.Header.CreatedByID)
	assert.Equal(t, itemUUID, r1.Lines[0].ItemID)
	assert.Equal(t, ds.Items[1].ID, r1.Lines[1].ItemID)
	assert.Equal(t, 30, r1.Lines[0].Receipt.ReceivedQty)
	assert.Equal(t, "ok", r1.Lines[0].Receipt.Notes)
	assert.Equal(t, "18.9", r1.Lines[1].UnitPrice.String())
	assert.Equal(t, domain.StatusParcial, r1.Status)
	require.NotNil(t, r1.DeliveryDate)
	assert.Equal(t, "2024-03-10", *r1.DeliveryDate)
	assert.Equal(t, 2024, r1.Header.CreatedAt.Year())

	// Requisição 2: sem recebimentos, item inexistente mantém a referência.
	r2 := ds.Requests[1]
	assert.Equal(t, domain.StatusPendente, r2.Status)
	assert.Equal(t, "sumiu", r2.Lines[0].ItemID)
	assert.Empty(t, r2.Header.CreatedByID)
	assert.Nil(t, r2.DeliveryDate)
	assert.True(t, r2.Header.CreatedAt.IsZero())
}

func TestConvert_MisalignedReceiptsFailFast(t *testing.T) {
	st := legacy.State{Reqs: []legacy.Request{{
		ID:       "r1",
		Lines:    []legacy.Line{{ID: "l1", Qty: 1}, {ID: "l2", Qty: 2}},
		Received: []legacy.Receipt{{ReceivedQty: 1}},
	}}}

	_, err := legacy.Convert(st, plainHasher)
	require.Error(t, err)
	var invErr *apperror.InvariantError
	assert.ErrorAs(t, err, &invErr)
}

func TestConvert_Rejects(t *testing.T) {
	cases := map[string]legacy.State{
		"papel inválido": {Users: []legacy.User{{Username: "x", Password: "y", Role: "CHEFE"}}},
		"senha vazia":    {Users: []legacy.User{{Username: "x", Role: "ADMIN"}}},
		"quantidade 0":   {Reqs: []legacy.Request{{ID: "r", Lines: []legacy.Line{{ID: "l", Qty: 0}}}}},
		"sem linhas":     {Reqs: []legacy.Request{{ID: "r"}}},
	}
	for name, st := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := legacy.Convert(st, plainHasher)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := legacy.Parse(strings.NewReader(`{"users": [`))
	assert.Error(t, err)
}

func TestImporter_WritesAndSkipsExisting(t *testing.T) {
	st, err := legacy.Parse(strings.NewReader(legacyJSON))
	require.NoError(t, err)
	ds, err := legacy.Convert(st, plainHasher)
	require.NoError(t, err)

	store := memory.NewStore()
	im := legacy.NewImporter(store.Users(), store.Items(), store.Requests(), logger.NewLogger("error"))

	rep, err := im.Import(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, legacy.Report{Users: 2, Items: 2, Requests: 2}, rep)

	saved, err := store.Requests().FindByID(context.Background(), ds.Requests[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 30, saved.Lines[0].Receipt.ReceivedQty)

	// Segunda execução: tudo já existe.
	rep, err = im.Import(context.Background(), ds)
	require.NoError(t, err)
	assert.Equal(t, legacy.Report{Skipped: 6}, rep)
}
