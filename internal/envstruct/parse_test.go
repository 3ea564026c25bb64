package envstruct_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/envstruct"
	"github.com/stretchr/testify/require"
)

func TestPopulate(t *testing.T) {
	type args struct {
		v         any
		lookupEnv func(string) (string, bool)
	}
	tests := []struct {
		name       string
		args       args
		want       any
		wantErr    error
		wantAnyErr bool
	}{
		{
			name: "nil",
			args: args{
				v:         nil,
				lookupEnv: func(_ string) (string, bool) { return "", false },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name: "not pointer",
			args: args{
				v:         struct{}{},
				lookupEnv: func(_ string) (string, bool) { return "", false },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
		{
			name: "empty struct",
			args: args{
				v:         &struct{}{},
				lookupEnv: func(_ string) (string, bool) { return "", false },
			},
			want:    &struct{}{},
			wantErr: nil,
		},
		{
			name: "empty env",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					EnvVar string `env:"ENV_VAR"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "", false },
			},
			want:    nil,
			wantErr: envstruct.ErrEnvNotSet,
		},
		{
			name: "env is set",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					EnvVar string `env:"ENV_VAR"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "env_var", true },
			},
			want:    &struct{ EnvVar string }{EnvVar: "env_var"},
			wantErr: nil,
		},
		{
			name: "default value",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					EnvVar string `env:"ENV_VAR" envDefault:"fallback"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "", false },
			},
			want: &struct {
				EnvVar string `env:"ENV_VAR" envDefault:"fallback"`
			}{EnvVar: "fallback"},
			wantErr: nil,
		},
		{
			name: "int field",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Suspects int `env:"SUSPECTS" envDefault:"6"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "", false },
			},
			want: &struct {
				Suspects int `env:"SUSPECTS" envDefault:"6"`
			}{Suspects: 6},
			wantErr: nil,
		},
		{
			name: "float field",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Increment float64 `env:"INCREMENT"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "0.15", true },
			},
			want: &struct {
				Increment float64 `env:"INCREMENT"`
			}{Increment: 0.15},
			wantErr: nil,
		},
		{
			name: "invalid int",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Suspects int `env:"SUSPECTS"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "six", true },
			},
			want:       nil,
			wantAnyErr: true,
		},
		{
			name: "unsupported field type",
			args: args{
				v: &struct { //nolint:exhaustruct // populated later
					Flag bool `env:"FLAG"`
				}{},
				lookupEnv: func(_ string) (string, bool) { return "true", true },
			},
			want:    nil,
			wantErr: envstruct.ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := envstruct.Populate(tt.args.v, tt.args.lookupEnv)
			if tt.wantAnyErr {
				require.Error(t, err)
				return
			}
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.EqualValues(t, tt.want, tt.args.v)
		})
	}
}
