package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDatasetRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.HandleFunc("GET /v1/datasets", handler.ListDatasets)
	mux.HandleFunc("GET /v1/datasets/{datasetID}", handler.GetDataset)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/eda", handler.GetEDASummary)
	mux.HandleFunc("GET /v1/datasets/{datasetID}/reports", handler.ListReportsByDataset)

	mux.Handle("POST /v1/datasets", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestDataset)))
	mux.Handle("POST /v1/datasets/{datasetID}/clean", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.CleanDataset)))
	mux.Handle("POST /v1/datasets/{datasetID}/hypotheses", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunHypotheses)))
}

func registerReportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/reports/{reportID}", handler.GetReport)
	mux.HandleFunc("GET /v1/reports/{reportID}/text", handler.GetReportText)
}
