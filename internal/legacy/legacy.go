// Package legacy lê o estado JSON {users, items, reqs} da versão anterior do sistema
// e o converte para o modelo de domínio.
package legacy

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"almoxarifado/internal/domain"
	apperror "almoxarifado/internal/errors"
	"almoxarifado/internal/reconciliation"
)

// State é o documento persistido pela versão anterior.
type State struct {
	Users []User    `json:"users"`
	Items []Item    `json:"items"`
	Reqs  []Request `json:"reqs"`
}

// User guarda a senha em texto puro.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Code     string  `json:"code"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Location string  `json:"location"`
	Qty      float64 `json:"qty"`
	Min      float64 `json:"min"`
}

type Header struct {
	Pedido     string `json:"pedido"`
	Linha      string `json:"linha"`
	Fornecedor string `json:"fornecedor"`
	Marca      string `json:"marca"`
	CreatedBy  string `json:"createdBy"`
	CreatedAt  string `json:"createdAt"`
}

type Line struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Unit      string          `json:"unit"`
	Qty       float64         `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type Receipt struct {
	ReceivedQty float64 `json:"receivedQty"`
	Received    bool    `json:"received"`
	Notes       string  `json:"notes"`
}

// Request mantém linhas e recebimentos em vetores paralelos.
type Request struct {
	ID           string    `json:"id"`
	Header       Header    `json:"header"`
	Lines        []Line    `json:"lines"`
	DeliveryDate *string   `json:"deliveryDate"`
	Received     []Receipt `json:"received"`
	Status       string    `json:"status"`
}

// Parse decodifica o estado legado.
func Parse(r io.Reader) (State, error) {
	var st State
	if err := json.NewDecoder(r).Decode(&st); err != nil {
		return State{}, fmt.Errorf("estado legado inválido: %w", err)
	}
	return st, nil
}

// PasswordHasher transforma a senha em texto puro no hash armazenado.
type PasswordHasher func(password string) (string, error)

// Dataset é o estado convertido, pronto para ser gravado nos repositórios.
type Dataset struct {
	Users    []domain.User
	Items    []domain.Item
	Requests []domain.Request
}

// Convert valida e converte o estado legado. IDs que não são UUID recebem um novo
// UUID e as referências (linha → item, requisição → autor) são remapeadas.
// O status das requisições é recalculado a partir dos recebimentos.
func Convert(st State, hash PasswordHasher) (Dataset, error) {
	var ds Dataset
	userIDs := make(map[string]string, len(st.Users))
	userByName := make(map[string]string, len(st.Users))
	itemIDs := make(map[string]string, len(st.Items))

	// 1. Usuários
	for i, u := range st.Users {
		role := domain.UserRole(strings.ToUpper(strings.TrimSpace(u.Role)))
		if !role.Valid() {
			return Dataset{}, apperror.NewValidationError(fmt.Sprintf("usuário #%d (%s): papel '%s' inválido", i, u.Username, u.Role))
		}
		if strings.TrimSpace(u.Username) == "" || u.Password == "" {
			return Dataset{}, apperror.NewValidationError(fmt.Sprintf("usuário #%d: usuário e senha são obrigatórios", i))
		}
		hashed, err := hash(u.Password)
		if err != nil {
			return Dataset{}, fmt.Errorf("falha ao gerar hash da senha de %s: %w", u.Username, err)
		}
		id := remap(userIDs, u.ID)
		if _, seen := userByName[u.Name]; !seen {
			userByName[u.Name] = id
		}
		ds.Users = append(ds.Users, domain.User{
			ID:           id,
			Name:         strings.TrimSpace(u.Name),
			Username:     strings.TrimSpace(u.Username),
			PasswordHash: hashed,
			Role:         role,
		})
	}

	// 2. Itens
	for _, it := range st.Items {
		ds.Items = append(ds.Items, domain.Item{
			ID:       remap(itemIDs, it.ID),
			Name:     strings.TrimSpace(it.Name),
			Code:     it.Code,
			Unit:     it.Unit,
			Category: it.Category,
			Location: it.Location,
			Qty:      domain.ClampQty(toInt(it.Qty)),
			Min:      domain.ClampQty(toInt(it.Min)),
		})
	}

	// 3. Requisições
	for _, lr := range st.Reqs {
		req, err := convertRequest(lr, itemIDs, userByName)
		if err != nil {
			return Dataset{}, err
		}
		ds.Requests = append(ds.Requests, req)
	}
	return ds, nil
}

func convertRequest(lr Request, itemIDs, userByName map[string]string) (domain.Request, error) {
	if err := reconciliation.ValidateAlignment(len(lr.Lines), len(lr.Received)); err != nil {
		return domain.Request{}, fmt.Errorf("requisição %s (pedido %s): %w", lr.ID, lr.Header.Pedido, err)
	}
	// Vetor de recebimentos ausente equivale a nada recebido.
	received := lr.Received
	if len(received) == 0 {
		received = make([]Receipt, len(lr.Lines))
	}
	if len(lr.Lines) == 0 {
		return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("requisição %s sem linhas", lr.ID))
	}

	createdAt, err := time.Parse(time.RFC3339, lr.Header.CreatedAt)
	if err != nil {
		createdAt = time.Time{} // o repositório usa o horário da importação
	}

	req := domain.Request{
		ID: remap(map[string]string{}, lr.ID),
		Header: domain.RequestHeader{
			Pedido:      lr.Header.Pedido,
			Linha:       lr.Header.Linha,
			Fornecedor:  lr.Header.Fornecedor,
			Marca:       lr.Header.Marca,
			CreatedBy:   lr.Header.CreatedBy,
			CreatedByID: userByName[lr.Header.CreatedBy],
			CreatedAt:   createdAt,
		},
		Lines: make([]domain.RequestLine, len(lr.Lines)),
	}
	if lr.DeliveryDate != nil && *lr.DeliveryDate != "" {
		day := reconciliation.DayKey(*lr.DeliveryDate)
		req.DeliveryDate = &day
	}

	for i, l := range lr.Lines {
		qty := toInt(l.Qty)
		if qty <= 0 {
			return domain.Request{}, apperror.NewValidationError(fmt.Sprintf("requisição %s, linha %d: quantidade %v inválida", lr.ID, i, l.Qty))
		}
		itemID, ok := itemIDs[l.ItemID]
		if !ok {
			itemID = l.ItemID // item removido: a linha mantém a referência original
		}
		price := l.UnitPrice
		if price.IsNegative() {
			price = decimal.Zero
		}
		req.Lines[i] = domain.RequestLine{
			ID:        remap(map[string]string{}, l.ID),
			ItemID:    itemID,
			Name:      l.Name,
			Code:      l.Code,
			Unit:      l.Unit,
			Qty:       qty,
			UnitPrice: price,
			Receipt: domain.Receipt{
				ReceivedQty: domain.ClampQty(toInt(received[i].ReceivedQty)),
				Received:    received[i].Received,
				Notes:       received[i].Notes,
			},
		}
	}
	req.Status = reconciliation.Summarize(req).Status
	return req, nil
}

// remap devolve o ID legado quando já é um UUID, senão um novo, registrando a troca em ids.
func remap(ids map[string]string, legacyID string) string {
	if id, ok := ids[legacyID]; ok {
		return id
	}
	id := legacyID
	if _, err := uuid.Parse(legacyID); err != nil {
		id = uuid.New().String()
	}
	if legacyID != "" {
		ids[legacyID] = id
	}
	return id
}

// toInt arredonda e limita a [-MaxQty, MaxQty] antes da conversão.
func toInt(f float64) int {
	return int(math.Max(-domain.MaxQty, math.Min(math.Round(f), domain.MaxQty)))
}
