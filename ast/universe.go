package ast

const MeterUnitName = "Meter"
const SecondUnitName = "Second"
const KilogramUnitName = "Kilogram"
const AmpereUnitName = "Ampere"
const KelvinUnitName = "Kelvin"
const MoleUnitName = "Mole"
const CandelaUnitName = "Candela"

// The SI base units, provided for convenience. Nothing in the algebra is
// specific to them: any Base with an upper-case name is a valid base unit.
var Meter = &Base{
	Name: MeterUnitName,
}
var Second = &Base{
	Name: SecondUnitName,
}
var Kilogram = &Base{
	Name: KilogramUnitName,
}
var Ampere = &Base{
	Name: AmpereUnitName,
}
var Kelvin = &Base{
	Name: KelvinUnitName,
}
var Mole = &Base{
	Name: MoleUnitName,
}
var Candela = &Base{
	Name: CandelaUnitName,
}

// Dimensionless is the unit literal 1.
var Dimensionless = &One{}
