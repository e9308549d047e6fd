// Package shared wires the services used by both the API and the admin CLI.
package shared

import (
	"context"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/registrar/core"
	"github.com/trezcool/registrar/core/faculty"
	"github.com/trezcool/registrar/core/location"
	"github.com/trezcool/registrar/core/reconcile"
	"github.com/trezcool/registrar/core/report"
	"github.com/trezcool/registrar/core/school"
	"github.com/trezcool/registrar/core/student"
	emailsvc "github.com/trezcool/registrar/services/email"
	sheetsvc "github.com/trezcool/registrar/services/spreadsheet"
	sqlxrepos "github.com/trezcool/registrar/storage/database/sqlx"
)

// NewValidator returns a validator with our custom validations & english translations.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

// NewMailService prints emails in debug mode and sends them through SendGrid otherwise.
func NewMailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// NewReportService connects to the configured spreadsheet and builds the report service on top of the sqlx repositories.
func NewReportService(ctx context.Context, conf *core.Config, db core.DB, mail core.EmailService, logger core.Logger) (*report.Service, error) {
	sheet, err := sheetsvc.New(ctx, conf.Sheets)
	if err != nil {
		return nil, errors.Wrap(err, "setting up spreadsheet")
	}

	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	facultySvc := faculty.NewService(sqlxrepos.NewFacultyRepository(db))

	reconcileSvc, err := reconcile.NewService(reconcile.Deps{
		Sheet:      sheet,
		References: schoolSvc,
		Students:   studentSvc,
		Faculty:    facultySvc,
		Logger:     logger,
		StudentTab: conf.Sheets.StudentTab,
		FacultyTab: conf.Sheets.FacultyTab,
	})
	if err != nil {
		return nil, err
	}

	return report.NewService(report.Deps{
		Schools:        schoolSvc,
		Students:       studentSvc,
		Faculty:        facultySvc,
		Reconciler:     reconcileSvc,
		Mail:           mail,
		Recipients:     conf.ReportRecipients(),
		SpreadsheetURL: conf.SpreadsheetURL(),
		Logger:         logger,
	})
}

func NewLocationService(conf *core.Config, logger core.Logger) (*location.Service, error) {
	return location.NewService(location.Options(conf.Locations), logger)
}
