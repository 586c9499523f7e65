package command

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/viant/sanction/model/account"
)

func roundTrips(envelope Envelope) bool {
	encoded, err := Encode(envelope)
	if err != nil {
		return false
	}
	decoded, err := Decode(encoded)
	if err != nil {
		return false
	}
	return decoded.Name() == envelope.Name() && reflect.DeepEqual(decoded, envelope)
}

func TestEnvelopeRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("update account survives encode/decode", prop.ForAll(
		func(target, name, email, phone, identification string) bool {
			return roundTrips(UpdateAccount{
				TargetID: target,
				Fields: account.Update{
					Name:           name,
					Email:          email,
					Phone:          phone,
					Identification: identification,
				},
			})
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.NumString(),
		gen.AlphaString(),
	))

	properties.Property("update role survives encode/decode", prop.ForAll(
		func(target string, role string) bool {
			return roundTrips(UpdateAccountRole{TargetID: target, Role: account.Role(role)})
		},
		gen.Identifier(),
		gen.OneConstOf("admin", "coach", "athlete"),
	))

	properties.Property("delete tournament survives encode/decode", prop.ForAll(
		func(id string) bool { return roundTrips(DeleteTournament{ID: id}) },
		gen.AlphaString(),
	))

	properties.Property("delete training survives encode/decode", prop.ForAll(
		func(id string) bool { return roundTrips(DeleteTraining{ID: id}) },
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
