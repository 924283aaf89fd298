package param

import (
	"encoding/json"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/gorilla/schema"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.SetAliasTag("json")
	return d
}

// Binding decode query parameters, then the json body if any, and validate v
func Binding(r *http.Request, v interface{}) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return err
	}

	if r.Body != nil && r.ContentLength != 0 && r.Method != http.MethodGet {
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return err
		}
	}

	if _, err := govalidator.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}
