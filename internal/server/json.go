package server

import (
	"encoding/json"
	"net/http"
)

type Envelope map[string]any

func (app *Application) writeJSON(w http.ResponseWriter, status int, data Envelope) {
	js, err := json.MarshalIndent(data, "", " ")
	if err != nil {
		app.Logger.Printf("error marshaling JSON: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	js = append(js, '\n')
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(js); err != nil {
		app.Logger.Printf("error writing JSON response: %v", err)
	}
}

func (app *Application) writeError(w http.ResponseWriter, status int, message string) {
	app.writeJSON(w, status, Envelope{"error": message})
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		app.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
