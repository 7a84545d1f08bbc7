package jsonstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// UnknownActor valor para operador o registrador ausentes en datos heredados.
const UnknownActor = "desconocido"

// legacyKeys claves de revisiones anteriores -> clave actual.
// legacy_date es la fecha sin hora de la herramienta de escritorio.
var legacyKeys = map[string]string{
	"编号":   "item_id",
	"名称":   "item_name",
	"所属组织": "organization",
	"数量":   "quantity",
	"入库日期": "legacy_date",
	"操作类型": "operation_kind",
	"操作人":  "operator",
	"提交人":  "submitter",
	"提交时间": "submitted_at",
	"操作时间": "effective_time",
	"备注":   "note",

	"itemId":            "item_id",
	"itemName":          "item_name",
	"operationKind":     "operation_kind",
	"kind":              "operation_kind",
	"effectiveTime":     "effective_time",
	"submittedAt":       "submitted_at",
	"lastOperationKind": "last_operation_kind",
	"lastOperator":      "last_operator",
	"lastOperationTime": "last_operation_time",
	"date":              "legacy_date",
}

type header struct {
	SchemaVersion *int `json:"schema_version"`
}

// decodeOperations acepta el sobre actual, un arreglo sin sobre o un objeto sin versión.
// migrated indica que hubo que convertir el formato.
func decodeOperations(data []byte) ([]entity.Operation, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false, nil
	}

	if data[0] == '[' {
		raws, err := decodeRawList(data)
		if err != nil {
			return nil, false, err
		}
		return migrateOperations(raws), true, nil
	}

	version, err := schemaVersion(data)
	if err != nil {
		return nil, false, err
	}
	if version == SchemaVersion {
		var doc operationsDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, false, err
		}
		return doc.Operations, false, nil
	}

	var doc struct {
		Operations []map[string]any `json:"operations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, err
	}
	return migrateOperations(doc.Operations), true, nil
}

// decodeInventory acepta el sobre actual, un arreglo de registros (formato de escritorio)
// o un objeto id -> registro sin sobre.
func decodeInventory(data []byte) ([]entity.InventoryRecord, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, false, fmt.Errorf("archivo vacío")
	}

	if data[0] == '[' {
		raws, err := decodeRawList(data)
		if err != nil {
			return nil, false, err
		}
		return migrateRecords(raws), true, nil
	}

	version, err := schemaVersion(data)
	if err != nil {
		return nil, false, err
	}
	if version == SchemaVersion {
		var doc inventoryDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, false, err
		}
		return sortedRecords(doc.Items), false, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, false, err
	}
	if items, ok := obj["items"]; ok {
		obj = nil
		if bytes.HasPrefix(bytes.TrimSpace(items), []byte("[")) {
			raws, err := decodeRawList(items)
			if err != nil {
				return nil, false, err
			}
			return migrateRecords(raws), true, nil
		}
		if err := json.Unmarshal(items, &obj); err != nil {
			return nil, false, err
		}
	}
	delete(obj, "schema_version")

	raws := make([]map[string]any, 0, len(obj))
	for id, msg := range obj {
		var raw map[string]any
		if err := json.Unmarshal(msg, &raw); err != nil {
			return nil, false, fmt.Errorf("registro %s: %w", id, err)
		}
		if _, ok := raw["item_id"]; !ok {
			if _, ok := raw["编号"]; !ok {
				raw["item_id"] = id
			}
		}
		raws = append(raws, raw)
	}
	records := migrateRecords(raws)
	byID := make(map[string]entity.InventoryRecord, len(records))
	for _, r := range records {
		byID[r.ItemID] = r
	}
	return sortedRecords(byID), true, nil
}

func schemaVersion(data []byte) (int, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return 0, err
	}
	if h.SchemaVersion == nil {
		return 1, nil
	}
	if *h.SchemaVersion > SchemaVersion {
		return 0, fmt.Errorf("schema_version %d no soportada (máximo %d)", *h.SchemaVersion, SchemaVersion)
	}
	return *h.SchemaVersion, nil
}

func decodeRawList(data []byte) ([]map[string]any, error) {
	var raws []map[string]any
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	return raws, nil
}

// canonical renombra las claves heredadas. Si una clave actual y una heredada coinciden, gana la actual.
func canonical(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if nk, ok := legacyKeys[k]; ok {
			if _, exists := raw[nk]; exists {
				continue
			}
			k = nk
		}
		out[k] = v
	}
	return out
}

func migrateOperations(raws []map[string]any) []entity.Operation {
	ops := make([]entity.Operation, 0, len(raws))
	for i, raw := range raws {
		r := canonical(raw)
		op := entity.Operation{
			ID:            str(r["id"]),
			SubmittedAt:   parseTimestamp(str(r["submitted_at"])),
			ItemID:        str(r["item_id"]),
			ItemName:      str(r["item_name"]),
			Organization:  str(r["organization"]),
			Kind:          entity.ParseOperationKind(str(r["operation_kind"])),
			Quantity:      num(r["quantity"]),
			EffectiveTime: effectiveTime(str(r["effective_time"]), str(r["legacy_date"])),
			Operator:      orDefault(str(r["operator"]), UnknownActor),
			Submitter:     orDefault(str(r["submitter"]), UnknownActor),
		}
		if op.ID == "" {
			op.ID = legacyID(i, op.ItemID)
		}
		if op.Kind == "" {
			op.Kind = entity.KindStockIn
		}
		ops = append(ops, op)
	}
	return ops
}

// legacyID id estable para una operación heredada sin id: depende solo de su posición
// en el archivo, así que se repite en cada carga hasta que el log se vuelva a guardar.
func legacyID(position int, itemID string) string {
	name := fmt.Sprintf("almacen-api/operacion-heredada/%d/%s", position, itemID)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func migrateRecords(raws []map[string]any) []entity.InventoryRecord {
	out := make([]entity.InventoryRecord, 0, len(raws))
	for _, raw := range raws {
		r := canonical(raw)
		rec := entity.InventoryRecord{
			ItemID:            str(r["item_id"]),
			ItemName:          str(r["item_name"]),
			Organization:      str(r["organization"]),
			Quantity:          num(r["quantity"]),
			LastOperationKind: entity.ParseOperationKind(str(r["last_operation_kind"])),
			LastOperator:      str(r["last_operator"]),
			LastOperationTime: effectiveTime(str(r["last_operation_time"]), str(r["legacy_date"])),
			Note:              str(r["note"]),
		}
		if rec.LastOperationKind == "" {
			rec.LastOperationKind = entity.KindStockIn
		}
		out = append(out, rec)
	}
	return out
}

// effectiveTime usa la hora efectiva si existe; si no, completa la fecha heredada con 00:00.
func effectiveTime(current, legacyDate string) string {
	if current != "" {
		return current
	}
	if legacyDate == "" {
		return ""
	}
	if _, err := time.Parse("2006-01-02", legacyDate); err == nil {
		return legacyDate + " 00:00"
	}
	return legacyDate
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", entity.EffectiveTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

func num(v any) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
