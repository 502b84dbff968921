package main

import (
	"strings"
	"testing"

	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/psychro"

	"github.com/stretchr/testify/assert"
)

func testBot() *Bot {
	return &Bot{Defaults: heater.Defaults(), Lookup: psychro.Fixed(3500)}
}

func TestReplyCalc(t *testing.T) {
	out := testBot().Reply("/calc")
	assert.Contains(t, out, "Heat Input: 480702237.88 kJ/hr")
	assert.Contains(t, out, "Net Efficiency: 73.81 %")

	out = testBot().Reply("/calc@firebox_bot fuel_mass_flow=10000 steam_enthalpy=2800,5")
	assert.Contains(t, out, "Fuel Efficiency:")
	assert.NotContains(t, out, "invalid")
}

func TestReplyErrors(t *testing.T) {
	b := testBot()
	assert.Contains(t, b.Reply("/calc fuel_mass_flow"), "expected key=value")
	assert.Contains(t, b.Reply("/calc fuel_mass_flow=x"), "not a number")
	assert.Contains(t, b.Reply("/calc chimney=3"), "unknown parameter")
	assert.Contains(t, b.Reply("/calc fuel_mass_flow=0"), "invalid parameters")
	assert.Contains(t, b.Reply("/frobnicate"), "unknown command")
}

func TestReplyOther(t *testing.T) {
	b := testBot()
	assert.Empty(t, b.Reply("hello"))
	assert.Empty(t, b.Reply("   "))
	assert.Equal(t, usage, b.Reply("/help"))

	fields := b.Reply("/fields")
	assert.Equal(t, len(heater.Fields()), strings.Count(fields, "\n"))
	assert.Contains(t, fields, "fuel_mass_flow = 12000 kg/hr")
}
