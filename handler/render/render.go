package render

import (
	"encoding/json"
	"net/http"
	"openrate/core"
	"openrate/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/twitchtv/twirp"
)

// H json object
type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	write(w, http.StatusOK, v)
}

// Error write error as {"code", "msg"}
func Error(w http.ResponseWriter, err error) {
	status, code := codes.Get(err)
	msg := codes.Twirp(err).Msg()
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Errorln("render.Error")
	}

	write(w, status, H{"code": code, "msg": msg})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	twerr := twirp.InvalidArgumentError("request", err.Error()).
		WithMeta(codes.CustomCodeKey, core.ErrInvalidArgument.Code())
	Error(w, twerr)
}

// NotFound not found error
func NotFound(w http.ResponseWriter, msg string) {
	Error(w, twirp.NotFoundError(msg))
}

func write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Errorln("encode response")
	}
}
