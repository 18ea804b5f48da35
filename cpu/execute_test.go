// execute_test.go - fetch-decode-execute scenarios

package cpu

import "testing"

func loadAndRun(t *testing.T, program []byte, steps int) *CPU {
	t.Helper()
	c := NewCPU(0x10000)
	c.State().SetPC(0x0100)
	if err := c.WriteBytes(0x0100, program); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < steps; i++ {
		if _, err := c.ExecuteInstruction(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	return c
}

func TestExecuteMviAndAdd(t *testing.T) {
	// mvi a, 0x05 ; mvi b, 0x03 ; add b
	c := loadAndRun(t, []byte{0x3E, 0x05, 0x06, 0x03, 0x80}, 3)
	a, _ := c.ReadRegister8(RegisterA)
	if a != 0x08 {
		t.Fatalf("A = 0x%02X, want 0x08", a)
	}
}

func TestExecuteLxiDadAndShld(t *testing.T) {
	// lxi h, 0x1234 ; lxi d, 0x0001 ; dad d ; shld 0x2000
	c := loadAndRun(t, []byte{
		0x21, 0x34, 0x12,
		0x11, 0x01, 0x00,
		0x19,
		0x22, 0x00, 0x20,
	}, 4)
	hl, _ := c.ReadRegister16(RegisterPairHL, true)
	if hl != 0x1235 {
		t.Fatalf("HL = 0x%04X, want 0x1235", hl)
	}
	stored, err := c.Read16(0x2000)
	if err != nil {
		t.Fatal(err)
	}
	if stored != 0x1235 {
		t.Fatalf("memory at 0x2000 = 0x%04X, want 0x1235", stored)
	}
}

func TestExecuteCallAndReturn(t *testing.T) {
	c := NewCPU(0x10000)
	c.State().SetSP(0x4000)
	c.State().SetPC(0x0100)
	// call 0x0200 ... at 0x0200: ret
	if err := c.WriteBytes(0x0100, []byte{0xCD, 0x00, 0x02}); err != nil {
		t.Fatal(err)
	}
	if err := c.WriteBytes(0x0200, []byte{0xC9}); err != nil {
		t.Fatal(err)
	}

	cycles, err := c.ExecuteInstruction()
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 17 {
		t.Fatalf("call cycles = %d, want 17", cycles)
	}
	if pc := c.State().PC(); pc != 0x0200 {
		t.Fatalf("PC after call = 0x%04X, want 0x0200", pc)
	}

	cycles, err = c.ExecuteInstruction()
	if err != nil {
		t.Fatal(err)
	}
	if cycles != 10 {
		t.Fatalf("ret cycles = %d, want 10", cycles)
	}
	if pc := c.State().PC(); pc != 0x0103 {
		t.Fatalf("PC after return = 0x%04X, want 0x0103", pc)
	}
}

func TestExecuteConditionalJumpNotTaken(t *testing.T) {
	c := NewCPU(0x10000)
	c.State().SetPC(0x0100)
	c.SetFlag(FlagZ, false)
	// jz 0x0200
	if err := c.WriteBytes(0x0100, []byte{0xCA, 0x00, 0x02}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ExecuteInstruction(); err != nil {
		t.Fatal(err)
	}
	if pc := c.State().PC(); pc != 0x0103 {
		t.Fatalf("PC = 0x%04X after untaken JZ, want 0x0103", pc)
	}
}

func TestExecuteRstPushesReturnAddress(t *testing.T) {
	c := NewCPU(0x10000)
	c.State().SetSP(0x4000)
	c.State().SetPC(0x0150)
	// rst 1
	if err := c.WriteBytes(0x0150, []byte{0xCF}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ExecuteInstruction(); err != nil {
		t.Fatal(err)
	}
	if pc := c.State().PC(); pc != 0x0008 {
		t.Fatalf("PC after RST 1 = 0x%04X, want 0x0008", pc)
	}
	ret, err := c.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if ret != 0x0151 {
		t.Fatalf("return address on stack = 0x%04X, want 0x0151", ret)
	}
}

func TestExecuteHltStopsExecuteCycle(t *testing.T) {
	c := NewCPU(0x10000)
	c.State().SetPC(0x0100)
	if err := c.WriteBytes(0x0100, []byte{0x76}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.ExecuteInstruction(); err != nil {
		t.Fatal(err)
	}
	if !c.State().Halt() {
		t.Fatal("HLT should set the halt latch")
	}
	pcBefore := c.State().PC()
	if err := c.ExecuteCycle(); err != nil {
		t.Fatal(err)
	}
	if c.State().PC() != pcBefore {
		t.Fatal("ExecuteCycle must not fetch once halted")
	}
}

func TestExecuteCycleSpendsWaitBudgetBeforeNextFetch(t *testing.T) {
	c := NewCPU(0x10000)
	c.State().SetPC(0x0100)
	// two nops (4 cycles each)
	if err := c.WriteBytes(0x0100, []byte{0x00, 0x00}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if err := c.ExecuteCycle(); err != nil {
			t.Fatal(err)
		}
	}
	if pc := c.State().PC(); pc != 0x0101 {
		t.Fatalf("PC after 4 ticks spending the first NOP's budget = 0x%04X, want 0x0101", pc)
	}
	if err := c.ExecuteCycle(); err != nil {
		t.Fatal(err)
	}
	if pc := c.State().PC(); pc != 0x0102 {
		t.Fatalf("PC after 5th tick fetches the second NOP = 0x%04X, want 0x0102", pc)
	}
}

func TestExecuteInOutUsesHostFuncs(t *testing.T) {
	c := NewCPU(0x10000)
	c.State().SetPC(0x0100)
	var lastOutPort, lastOutValue byte
	c.InFunc = func(port byte) byte { return 0xAB }
	c.OutFunc = func(port byte, value byte) { lastOutPort, lastOutValue = port, value }

	// in 0x10 ; mov b, a ; mvi a, 0x22 ; out 0x10
	if err := c.WriteBytes(0x0100, []byte{0xDB, 0x10, 0x47, 0x3E, 0x22, 0xD3, 0x10}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if _, err := c.ExecuteInstruction(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	b, _ := c.ReadRegister8(RegisterB)
	if b != 0xAB {
		t.Fatalf("B = 0x%02X, want 0xAB from InFunc", b)
	}
	if lastOutPort != 0x10 || lastOutValue != 0x22 {
		t.Fatalf("OutFunc got port=0x%02X value=0x%02X, want port=0x10 value=0x22", lastOutPort, lastOutValue)
	}
}

func TestExecuteUnwiredIOReturnsPortError(t *testing.T) {
	c := NewCPU(0x10000)
	c.State().SetPC(0x0100)
	if err := c.WriteBytes(0x0100, []byte{0xDB, 0x10}); err != nil {
		t.Fatal(err)
	}
	_, err := c.ExecuteInstruction()
	if err == nil {
		t.Fatal("expected IOPortError with no InFunc installed")
	}
	if _, ok := err.(*IOPortError); !ok {
		t.Fatalf("expected *IOPortError, got %T", err)
	}
}
