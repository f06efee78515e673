package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"p9e.in/combustibles/config"
	"p9e.in/combustibles/middleware"
	"p9e.in/combustibles/models"
	"p9e.in/combustibles/pkg/tabular"
)

const uploadDir = "./uploads"

// UserProvisioner creates the account behind a funcionario name when it
// does not exist yet. Import takes it as a collaborator instead of
// reaching into the user table itself.
type UserProvisioner interface {
	Ensure(funcionario string) (created bool, err error)
}

type dbProvisioner struct {
	db *gorm.DB
}

func (p dbProvisioner) Ensure(funcionario string) (bool, error) {
	_, created, err := ensureUser(p.db, funcionario)
	return created, err
}

type importSummary struct {
	Created      int
	UsersCreated int
	Scanned      int
	Skipped      map[string]int
}

// runImport feeds a parsed upload through the store: one transactional
// batch of readings, with accounts provisioned for funcionarios first
// seen in this file.
func runImport(db *gorm.DB, provisioner UserProvisioner, result *tabular.Result, updatedBy string) (*importSummary, error) {
	summary := &importSummary{Scanned: result.Scanned, Skipped: result.Skipped}

	seen := make(map[string]bool)
	readings := make([]*models.FuelReading, 0, len(result.Readings))
	for i := range result.Readings {
		reading := result.Readings[i]
		if !seen[reading.Funcionario] {
			seen[reading.Funcionario] = true
			created, err := provisioner.Ensure(reading.Funcionario)
			if err != nil {
				// A funcionario whose account cannot be provisioned still
				// gets their rows imported; the failure is logged, not fatal.
				log.Printf("[IMPORT] could not provision account for %q: %v", reading.Funcionario, err)
			} else if created {
				summary.UsersCreated++
			}
		}
		reading.UpdatedBy = updatedBy
		readings = append(readings, &reading)
	}

	store := models.NewFuelStore(db)
	if err := store.AppendBatch(readings); err != nil {
		return nil, err
	}
	summary.Created = len(readings)
	return summary, nil
}

// UploadFile ingests a CSV or Excel station file: header columns are
// matched fuzzily, bad rows are skipped, missing accounts are created,
// and every surviving row is appended as an initial reading.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		fail(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "no se seleccionó archivo")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" && ext != ".xls" {
		fail(w, http.StatusBadRequest, "tipo de archivo no permitido")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		fail(w, http.StatusInternalServerError, "error al leer archivo")
		return
	}
	archiveUpload(header.Filename, content)

	reader := tabular.NewReader()
	var result *tabular.Result
	if ext == ".csv" {
		result, err = reader.ReadCSV(bytes.NewReader(content))
	} else {
		result, err = reader.ReadXLSX(bytes.NewReader(content))
	}
	if err != nil {
		var formatErr *tabular.FormatError
		if errors.As(err, &formatErr) {
			fail(w, http.StatusBadRequest, formatErr.Error())
			return
		}
		fail(w, http.StatusBadRequest, "error al procesar archivo: "+err.Error())
		return
	}

	updatedBy := middleware.GetUsername(r)
	summary, err := runImport(config.DB, dbProvisioner{db: config.DB}, result, updatedBy)
	if err != nil {
		fail(w, http.StatusInternalServerError, "error al procesar archivo: "+err.Error())
		return
	}

	recordImportJob(header.Filename, updatedBy, summary)

	message := fmt.Sprintf("Archivo procesado correctamente. %d registros creados.", summary.Created)
	if summary.UsersCreated > 0 {
		message += fmt.Sprintf(" %d usuarios creados.", summary.UsersCreated)
	}
	ok(w, message, nil)
}

// archiveUpload keeps the raw upload on disk for traceability. Failure to
// archive never fails the import.
func archiveUpload(filename string, content []byte) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("[IMPORT] could not create upload dir: %v", err)
		return
	}
	name := fmt.Sprintf("%s-%s", time.Now().Format("20060102-150405"), filepath.Base(filename))
	if err := os.WriteFile(filepath.Join(uploadDir, name), content, 0o644); err != nil {
		log.Printf("[IMPORT] could not archive upload %s: %v", filename, err)
	}
}

func recordImportJob(filename, uploadedBy string, summary *importSummary) {
	details, err := json.Marshal(map[string]interface{}{
		"omitidas": summary.Skipped,
	})
	if err != nil {
		details = nil
	}
	skipped := 0
	for _, n := range summary.Skipped {
		skipped += n
	}
	job := models.ImportJob{
		Filename:     filepath.Base(filename),
		RowCount:     summary.Scanned,
		CreatedCount: summary.Created,
		UsersCreated: summary.UsersCreated,
		SkippedCount: skipped,
		UploadedBy:   uploadedBy,
		Details:      datatypes.JSON(details),
	}
	if err := config.DB.Create(&job).Error; err != nil {
		log.Printf("[IMPORT] could not record import job: %v", err)
	}
}

// ListImportJobs returns the bulk-import audit trail, newest first.
func ListImportJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []models.ImportJob
	if err := config.DB.Order("created_at DESC").Limit(50).Find(&jobs).Error; err != nil {
		fail(w, http.StatusInternalServerError, "DB error: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": jobs})
}
